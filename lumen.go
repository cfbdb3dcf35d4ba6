// Package lumen provides the public API for the Lumen page framework.
//
// This is the recommended import for most applications:
//
//	import "github.com/lumen-dev/lumen"
//
// Usage:
//
//	app := lumen.New(lumen.Config{})
//	app.AddRoute("/", nil, lumen.Template("<h1>Home</h1>"))
//	app.AddRoute("/users/[id]", showUser, lumen.WithLayout("main"))
//	app.Navigate("/")
package lumen

import (
	"github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/router"
	"github.com/lumen-dev/lumen/pkg/store"
)

// Ctx is the per-navigation context passed to handlers, guards, and
// middleware. It carries the matched path, parameters, and query values.
type Ctx = router.Context

// Handler produces the HTML for a route.
type Handler = router.Handler

// Guard decides whether a navigation may proceed.
type Guard = router.Guard

// Middleware wraps navigation handling.
type Middleware = router.Middleware

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc = router.MiddlewareFunc

// Route is a registered route.
type Route = router.Route

// Child declares a nested route under a parent pattern.
type Child = router.Child

// Transition is a pair of visual effects run around a route swap.
type Transition = router.Transition

// ErrNavigationAborted stops a navigation from middleware without
// rendering an error page.
var ErrNavigationAborted = router.ErrNavigationAborted

// Navigation options.

type NavigateOption = router.NavigateOption

var (
	WithReplace = router.WithReplace
	WithForce   = router.WithForce
)

// Route registration options.

type RouteOption = router.RouteOption

var (
	WithLayout          = router.WithLayout
	WithMiddleware      = router.WithMiddleware
	WithGuards          = router.WithGuards
	WithCache           = router.WithCache
	WithKeepAlive       = router.WithKeepAlive
	WithTransition      = router.WithTransition
	WithoutScrollToTop  = router.WithoutScrollToTop
	WithoutPreload      = router.WithoutPreload
	WithLazy            = router.WithLazy
	WithFetchHTML       = router.WithFetchHTML
	WithComponent       = router.WithComponent
	WithTemplate        = router.WithTemplate
	WithTitle           = router.WithTitle
	WithMeta            = router.WithMeta
	WithChildren        = router.WithChildren
	WithErrorBoundary   = router.WithErrorBoundary
)

// Built-in transitions.

var (
	Fade = router.Fade
	None = router.None
)

// Errors.

// Error is a structured framework error with a stable code.
type Error = errors.LumenError

// IsCode reports whether err carries the given error code.
var IsCode = errors.Is

// Error codes.
const (
	CodeRouteNotFound    = errors.CodeRouteNotFound
	CodeInvalidPattern   = errors.CodeInvalidPattern
	CodeGuardRejected    = errors.CodeGuardRejected
	CodeInvalidHandler   = errors.CodeInvalidHandler
	CodeFetchFailed      = errors.CodeFetchFailed
	CodeComponentMissing = errors.CodeComponentMissing
	CodeLayoutMissing    = errors.CodeLayoutMissing
	CodeNavigationFailed = errors.CodeNavigationFailed
	CodeConfigInvalid    = errors.CodeConfigInvalid
	CodeStoreUnavailable = errors.CodeStoreUnavailable
	CodeStoreKeyMissing  = errors.CodeStoreKeyMissing
)

// IsStoreMissing reports whether err means a store key was absent or
// expired.
var IsStoreMissing = store.IsMissing

// Template registers a literal HTML template for a route.
//
//	app.AddRoute("/hi/[name]", nil, lumen.Template("<h1>Hi {{params.name}}</h1>"))
func Template(tpl string) RouteOption {
	return router.WithTemplate(tpl)
}

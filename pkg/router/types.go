package router

import (
	stderrors "errors"
)

// Handler produces a route's content for a navigation.
type Handler func(ctx *Context) (string, error)

// Guard gates entry to a route. Returning false cancels the navigation.
// A panicking guard is treated as a rejection.
type Guard func(ctx *Context) bool

// Middleware processes a navigation before content is rendered.
// Middleware wraps the remainder of the pipeline: call next to continue,
// return without calling it to abort the navigation.
type Middleware interface {
	// Handle processes the navigation and optionally calls next.
	// Return an error to stop the chain and report an error.
	// Return nil without calling next to stop the chain silently.
	Handle(ctx *Context, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx *Context, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *Context, next func() error) error {
	return f(ctx, next)
}

// ErrNavigationAborted is returned by middleware to cancel a navigation
// without rendering an error page.
var ErrNavigationAborted = stderrors.New("navigation aborted")

// Position is a recorded scroll position.
type Position struct {
	X int
	Y int
}

// TitleValue is a static page title or a function deriving one from the
// navigation context.
type TitleValue any

// MetaValue is a static map of meta tag name to content, or a function
// deriving one from the navigation context.
type MetaValue any

// sourceKind discriminates a route's content source.
type sourceKind int

const (
	sourceInvalid sourceKind = iota
	sourceInline
	sourceRemoteHTML
	sourceNamed
	sourceRemoteURL
	sourceTemplate
)

// source is the closed content-source variant, resolved once at route
// registration rather than re-inspected per navigation.
type source struct {
	kind     sourceKind
	handler  Handler // sourceInline
	htmlPath string  // sourceRemoteHTML
	name     string  // sourceNamed
	url      string  // sourceRemoteURL
	template string  // sourceTemplate
}

// Child declares a nested route under a parent pattern. Its pattern is
// joined onto the parent's and registered as an independent top-level
// route annotated with the parent pattern.
type Child struct {
	Pattern string
	Handler any
	Options []RouteOption
}

// Route is a registered route definition.
type Route struct {
	// Pattern is the original path template.
	Pattern string

	// Parent is the parent pattern for routes registered as children.
	Parent string

	matcher *pattern
	src     source

	// lazy holds the unresolved handler and registration options for
	// lazy routes until first use.
	lazy    any
	lazyCfg *routeConfig

	layoutID   string
	middleware []Middleware
	guards     []Guard
	cacheable  bool
	keepAlive  bool
	transition string
	scrollTop  bool
	preload    bool
	title      TitleValue
	meta       MetaValue

	// errorBoundary overrides the generic route-error rendering.
	errorBoundary func(ctx *Context, err error) string
}

// routeConfig collects registration options before they are applied.
type routeConfig struct {
	layoutID      string
	middleware    []Middleware
	guards        []Guard
	cacheable     bool
	keepAlive     bool
	transition    string
	scrollTop     bool
	noScrollTop   bool
	preloadOff    bool
	lazy          bool
	fetchHTML     bool
	htmlPath      string
	component     string
	template      string
	title         TitleValue
	meta          MetaValue
	children      []Child
	errorBoundary func(ctx *Context, err error) string
}

// RouteOption configures route registration.
type RouteOption func(*routeConfig)

// WithLayout wraps the route's content in the layout registered under id.
func WithLayout(id string) RouteOption {
	return func(c *routeConfig) { c.layoutID = id }
}

// WithMiddleware appends per-route middleware, applied after global
// middleware in registration order.
func WithMiddleware(mw ...Middleware) RouteOption {
	return func(c *routeConfig) { c.middleware = append(c.middleware, mw...) }
}

// WithGuards appends guards, run in order before middleware.
func WithGuards(guards ...Guard) RouteOption {
	return func(c *routeConfig) { c.guards = append(c.guards, guards...) }
}

// WithCache caches the route's rendered content by full path.
func WithCache() RouteOption {
	return func(c *routeConfig) { c.cacheable = true }
}

// WithKeepAlive retains the route's rendered content across navigations.
// Implies WithCache.
func WithKeepAlive() RouteOption {
	return func(c *routeConfig) {
		c.keepAlive = true
		c.cacheable = true
	}
}

// WithTransition selects a registered transition pair for the route.
func WithTransition(name string) RouteOption {
	return func(c *routeConfig) { c.transition = name }
}

// WithoutScrollToTop keeps the scroll position on entry when no saved
// position exists. The default is to reset to the top.
func WithoutScrollToTop() RouteOption {
	return func(c *routeConfig) { c.noScrollTop = true }
}

// WithoutPreload excludes the route from PreloadRoute.
func WithoutPreload() RouteOption {
	return func(c *routeConfig) { c.preloadOff = true }
}

// WithLazy defers content-source resolution to the first navigation.
func WithLazy() RouteOption {
	return func(c *routeConfig) { c.lazy = true }
}

// WithFetchHTML sources the route's content from a remote HTML resource.
// Fetched text is interpolated against the navigation context.
func WithFetchHTML(htmlPath string) RouteOption {
	return func(c *routeConfig) {
		c.fetchHTML = true
		c.htmlPath = htmlPath
	}
}

// WithComponent sources the route's content from a registered component.
func WithComponent(name string) RouteOption {
	return func(c *routeConfig) { c.component = name }
}

// WithTemplate sources the route's content from an inline template
// string, interpolated against the navigation context.
func WithTemplate(tpl string) RouteOption {
	return func(c *routeConfig) { c.template = tpl }
}

// WithTitle sets the page title applied on commit. Accepts a string or
// a func(*Context) string.
func WithTitle(title TitleValue) RouteOption {
	return func(c *routeConfig) { c.title = title }
}

// WithMeta sets meta tags applied on commit. Accepts a
// map[string]string or a func(*Context) map[string]string.
func WithMeta(meta MetaValue) RouteOption {
	return func(c *routeConfig) { c.meta = meta }
}

// WithChildren registers nested routes under this pattern.
func WithChildren(children ...Child) RouteOption {
	return func(c *routeConfig) { c.children = append(c.children, children...) }
}

// WithErrorBoundary overrides the generic route-error rendering for
// this route.
func WithErrorBoundary(fn func(ctx *Context, err error) string) RouteOption {
	return func(c *routeConfig) { c.errorBoundary = fn }
}

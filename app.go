package lumen

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lumen-dev/lumen/pkg/cache"
	"github.com/lumen-dev/lumen/pkg/content"
	"github.com/lumen-dev/lumen/pkg/dom"
	"github.com/lumen-dev/lumen/pkg/fetch"
	"github.com/lumen-dev/lumen/pkg/history"
	"github.com/lumen-dev/lumen/pkg/layout"
	"github.com/lumen-dev/lumen/pkg/router"
	"github.com/lumen-dev/lumen/pkg/seo"
	"github.com/lumen-dev/lumen/pkg/store"
)

// Config configures an App. The zero value is usable: it runs against
// an in-memory document, in-memory history, and an in-memory store.
type Config struct {
	// Logger receives framework logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Document is the render target. Defaults to an in-memory document.
	Document dom.Document

	// History tracks navigation entries. Defaults to in-memory history.
	History history.History

	// Store persists application state. Defaults to an in-memory store.
	Store store.Store

	// Fetch is the HTTP client used for remote page content.
	Fetch *fetch.Client

	// Cache bounds the page and layout caches. Zero fields use the
	// package defaults.
	Cache cache.Config

	// Meta is applied to the document once at startup. Per-route
	// titles and meta tags layer on top of it.
	Meta seo.PageMeta

	// StateTTL bounds how long SaveState entries live. Zero means
	// entries never expire.
	StateTTL time.Duration
}

// App bundles the router, the state store, and the document into a
// single entry point.
type App struct {
	router   *router.Router
	store    store.Store
	doc      dom.Document
	log      *slog.Logger
	stateTTL time.Duration
}

// New creates an App from cfg, filling in defaults for anything unset.
func New(cfg Config) *App {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	doc := cfg.Document
	if doc == nil {
		doc = dom.NewMemory()
	}
	hist := cfg.History
	if hist == nil {
		hist = history.NewMemory()
	}
	st := cfg.Store
	if st == nil {
		st = store.NewMemory()
	}
	client := cfg.Fetch
	if client == nil {
		client = fetch.New()
	}

	r := router.New(
		router.WithLogger(log),
		router.WithDocument(doc),
		router.WithHistory(hist),
		router.WithLoader(content.NewLoader(client)),
		router.WithCacheConfig(cfg.Cache),
	)

	cfg.Meta.Apply(doc)

	return &App{
		router:   r,
		store:    st,
		doc:      doc,
		log:      log,
		stateTTL: cfg.StateTTL,
	}
}

// Router exposes the underlying router for advanced use.
func (a *App) Router() *router.Router { return a.router }

// Store exposes the state store.
func (a *App) Store() store.Store { return a.store }

// Document exposes the render target.
func (a *App) Document() dom.Document { return a.doc }

// Layouts exposes the layout registry.
func (a *App) Layouts() *layout.Registry { return a.router.Layouts() }

// AddRoute registers a route. See router.Router.AddRoute.
func (a *App) AddRoute(pattern string, handler any, opts ...RouteOption) error {
	return a.router.AddRoute(pattern, handler, opts...)
}

// AddRoutes registers several routes mapping pattern to handler.
func (a *App) AddRoutes(routes map[string]any) error {
	return a.router.AddRoutes(routes)
}

// RegisterComponent registers a named render function.
func (a *App) RegisterComponent(name string, h Handler) {
	a.router.RegisterComponent(name, h)
}

// RegisterTransition registers a named transition.
func (a *App) RegisterTransition(name string, t Transition) {
	a.router.RegisterTransition(name, t)
}

// Use appends global middleware.
func (a *App) Use(mw ...Middleware) { a.router.Use(mw...) }

// SetNotFound installs the handler for unmatched paths.
func (a *App) SetNotFound(handler any, opts ...RouteOption) {
	a.router.SetNotFound(handler, opts...)
}

// SetErrorPage installs the global error renderer.
func (a *App) SetErrorPage(fn func(ctx *Ctx, err error) string) {
	a.router.SetErrorPage(fn)
}

// OnRouteChange registers a listener for completed navigations.
func (a *App) OnRouteChange(fn func(*Ctx)) (cancel func()) {
	return a.router.OnRouteChange(fn)
}

// Navigate requests navigation to path.
func (a *App) Navigate(path string, opts ...NavigateOption) {
	a.router.Navigate(path, opts...)
}

// Redirect navigates to path replacing the current history entry.
func (a *App) Redirect(path string, opts ...NavigateOption) {
	a.router.Redirect(path, opts...)
}

// Back moves one entry back in history.
func (a *App) Back() { a.router.Back() }

// Forward moves one entry forward in history.
func (a *App) Forward() { a.router.Forward() }

// CurrentPath returns the committed path with query.
func (a *App) CurrentPath() string { return a.router.CurrentPath() }

// Preload warms the page cache for path. Failures are logged, never
// returned.
func (a *App) Preload(ctx context.Context, path string) {
	a.router.Preload(ctx, path)
}

// PreloadAll warms the page cache for every given path.
func (a *App) PreloadAll(ctx context.Context, paths ...string) {
	a.router.PreloadAll(ctx, paths...)
}

// SaveState marshals v as JSON and persists it under key.
func (a *App) SaveState(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var expires time.Time
	if a.stateTTL > 0 {
		expires = time.Now().Add(a.stateTTL)
	}
	return a.store.Save(ctx, stateKey(key), data, expires)
}

// LoadState loads the JSON stored under key into v. Returns a
// CodeStoreKeyMissing error when nothing was saved.
func (a *App) LoadState(ctx context.Context, key string, v any) error {
	data, err := a.store.Load(ctx, stateKey(key))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// DeleteState removes the state saved under key.
func (a *App) DeleteState(ctx context.Context, key string) error {
	return a.store.Delete(ctx, stateKey(key))
}

// Close shuts down the router and the store.
func (a *App) Close() error {
	a.router.Close()
	return a.store.Close()
}

func stateKey(key string) string { return "state:" + key }

package router

import (
	"log/slog"
	"sync"

	"github.com/lumen-dev/lumen/pkg/cache"
	"github.com/lumen-dev/lumen/pkg/content"
	"github.com/lumen-dev/lumen/pkg/dom"
	"github.com/lumen-dev/lumen/pkg/history"
	"github.com/lumen-dev/lumen/pkg/layout"
)

// Router owns all navigation state: the route registry, content and
// layout caches, scroll positions, and the navigation queue. There are
// no package-level registries; construct a Router and inject it where
// navigation is needed.
type Router struct {
	mu sync.Mutex

	log     *slog.Logger
	doc     dom.Document
	history history.History
	loader  *content.Loader

	registry    *registry
	components  map[string]Handler
	layouts     *layout.Registry
	transitions map[string]Transition

	middleware []Middleware // global, applied before per-route middleware
	notFound   *Route
	errorPage  func(ctx *Context, err error) string

	pageCache   *cache.Cache
	layoutCache *cache.Cache
	scroll      map[string]Position

	listeners  map[int]func(*Context)
	nextListID int

	// navigation state, guarded by mu
	transitioning bool
	queue         []navRequest
	committed     string // committed full path
	current       *Route

	stopPop func()
}

// Option configures a Router.
type Option func(*Router)

// WithDocument sets the document the router renders into.
func WithDocument(doc dom.Document) Option {
	return func(r *Router) { r.doc = doc }
}

// WithHistory sets the history the router records navigations in.
func WithHistory(h history.History) Option {
	return func(r *Router) { r.history = h }
}

// WithLoader sets the remote content loader.
func WithLoader(l *content.Loader) Option {
	return func(r *Router) { r.loader = l }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router) { r.log = log }
}

// WithCacheConfig configures the page and layout caches.
func WithCacheConfig(cfg cache.Config) Option {
	return func(r *Router) {
		r.pageCache = cache.New(cfg)
		r.layoutCache = cache.New(cfg)
	}
}

// New creates a router. Without options it renders into an in-memory
// document with in-memory history, which is what tests and server-side
// runs want; the wasm binding supplies browser-backed implementations.
func New(opts ...Option) *Router {
	r := &Router{
		log:         slog.Default(),
		components:  make(map[string]Handler),
		layouts:     layout.NewRegistry(),
		transitions: make(map[string]Transition),
		scroll:      make(map[string]Position),
		listeners:   make(map[int]func(*Context)),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.doc == nil {
		r.doc = dom.NewMemory()
	}
	if r.history == nil {
		r.history = history.NewMemory()
	}
	if r.loader == nil {
		r.loader = content.NewLoader(nil)
	}
	if r.pageCache == nil {
		r.pageCache = cache.New(cache.Config{})
	}
	if r.layoutCache == nil {
		r.layoutCache = cache.New(cache.Config{})
	}
	r.registry = newRegistry(r.log)

	r.stopPop = r.history.Listen(r.handlePop)

	return r
}

// Close detaches the router from its history.
func (r *Router) Close() {
	if r.stopPop != nil {
		r.stopPop()
		r.stopPop = nil
	}
}

// AddRoute registers a route for pattern. The handler may be a Handler
// function or a string URL; options can instead source content from a
// registered component, a remote HTML resource, or an inline template.
// Registering an already-registered pattern replaces the earlier
// definition.
func (r *Router) AddRoute(pattern string, handler any, opts ...RouteOption) error {
	return r.addRoute(pattern, "", handler, opts)
}

// AddRoutes registers a batch of pattern→handler routes with default
// options. Patterns are registered in sorted order so precedence is
// deterministic.
func (r *Router) AddRoutes(routes map[string]any) error {
	for _, pattern := range sortedKeys(routes) {
		if err := r.AddRoute(pattern, routes[pattern]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) addRoute(pattern, parent string, handler any, opts []RouteOption) error {
	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	matcher, err := compilePattern(pattern)
	if err != nil {
		return err
	}

	route := &Route{
		Pattern:       pattern,
		Parent:        parent,
		matcher:       matcher,
		layoutID:      cfg.layoutID,
		middleware:    cfg.middleware,
		guards:        cfg.guards,
		cacheable:     cfg.cacheable,
		keepAlive:     cfg.keepAlive,
		transition:    cfg.transition,
		scrollTop:     !cfg.noScrollTop,
		preload:       !cfg.preloadOff,
		title:         cfg.title,
		meta:          cfg.meta,
		errorBoundary: cfg.errorBoundary,
	}

	if cfg.lazy {
		route.lazy = handler
		route.lazyCfg = &cfg
	} else {
		route.src = resolveSource(handler, &cfg)
	}

	r.mu.Lock()
	r.registry.add(route)
	r.mu.Unlock()

	for _, child := range cfg.children {
		joined := joinPatterns(pattern, child.Pattern)
		if err := r.addRoute(joined, pattern, child.Handler, child.Options); err != nil {
			return err
		}
	}
	return nil
}

// resolveSource fixes a route's content source from the handler shape
// and options. Checked in acquisition priority order: remote HTML,
// named component, inline handler, remote URL string, inline template.
func resolveSource(handler any, cfg *routeConfig) source {
	if cfg.fetchHTML && cfg.htmlPath != "" {
		return source{kind: sourceRemoteHTML, htmlPath: cfg.htmlPath}
	}
	if cfg.component != "" {
		return source{kind: sourceNamed, name: cfg.component}
	}
	switch h := handler.(type) {
	case Handler:
		return source{kind: sourceInline, handler: h}
	case func(*Context) (string, error):
		return source{kind: sourceInline, handler: h}
	case func(*Context) string:
		return source{kind: sourceInline, handler: func(ctx *Context) (string, error) {
			return h(ctx), nil
		}}
	case string:
		if h != "" {
			return source{kind: sourceRemoteURL, url: h}
		}
	}
	if cfg.template != "" {
		return source{kind: sourceTemplate, template: cfg.template}
	}
	return source{kind: sourceInvalid}
}

// RegisterComponent registers a named render function for routes using
// WithComponent.
func (r *Router) RegisterComponent(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = h
}

// Layouts returns the router's layout registry.
func (r *Router) Layouts() *layout.Registry {
	return r.layouts
}

// Use appends global middleware, applied to every route before the
// route's own middleware.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// SetNotFound registers the route rendered when no pattern matches.
func (r *Router) SetNotFound(handler any, opts ...RouteOption) {
	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = &Route{
		Pattern:   "(not-found)",
		src:       resolveSource(handler, &cfg),
		layoutID:  cfg.layoutID,
		title:     cfg.title,
		meta:      cfg.meta,
		scrollTop: true,
	}
}

// SetErrorPage overrides the generic navigation-error rendering.
func (r *Router) SetErrorPage(fn func(ctx *Context, err error) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorPage = fn
}

// OnRouteChange registers a listener fired once per committed
// navigation with the full navigation context. The returned function
// unsubscribes it.
func (r *Router) OnRouteChange(fn func(*Context)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextListID
	r.nextListID++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// ClearCache drops all cached page and layout content. This is the only
// invalidation besides LRU eviction.
func (r *Router) ClearCache() {
	r.pageCache.Clear()
	r.layoutCache.Clear()
}

// CurrentPath returns the committed full path, or "" before the first
// committed navigation.
func (r *Router) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

// CurrentRoute returns the committed route, or nil.
func (r *Router) CurrentRoute() *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Patterns returns the registered patterns in precedence order.
func (r *Router) Patterns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.patterns()
}

// notifyRouteChange fires listeners and the environment event.
func (r *Router) notifyRouteChange(ctx *Context) {
	r.mu.Lock()
	fns := make([]func(*Context), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
	r.doc.DispatchRouteChange(ctx)
}

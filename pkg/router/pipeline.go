package router

import (
	"context"
	"fmt"
	"html"

	"github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/content"
	"github.com/lumen-dev/lumen/pkg/layout"
	"github.com/lumen-dev/lumen/pkg/routepath"
)

// perform drives one navigation from the requested path to a committed
// (or failed-and-rendered) state. It never panics and never surfaces an
// error to the caller; runLoop drains the queue after it returns
// regardless of the outcome.
func (r *Router) perform(req navRequest) {
	var outT Transition
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("panic during navigation", "path", req.path, "panic", p)
			r.renderFailure(req, errors.Newf(errors.CategoryNavigation, "%v", p))
			r.replayTransitionIn(outT)
		}
	}()

	pathOnly, query := routepath.Split(req.path)

	// Save the outgoing route's scroll position before anything moves.
	r.mu.Lock()
	committed := r.committed
	outgoing := r.current
	r.mu.Unlock()
	if committed != "" {
		x, y := r.doc.ScrollPosition()
		r.mu.Lock()
		r.scroll[committed] = Position{X: x, Y: y}
		r.mu.Unlock()
	}

	r.doc.SetLoading(true)
	defer r.doc.SetLoading(false)

	outT = r.runTransitionOut(outgoing)

	r.mu.Lock()
	route, params := r.registry.match(pathOnly)
	notFound := r.notFound
	r.mu.Unlock()

	if route == nil {
		route = notFound
	}

	if params == nil {
		params = make(map[string]string)
	}
	ctx := &Context{
		Ctx:      context.Background(),
		Path:     pathOnly,
		FullPath: req.path,
		Params:   params,
		Query:    routepath.ParseQuery(query),
		Route:    route,
		router:   r,
	}

	if route == nil {
		// No match and no registered not-found route.
		r.log.Warn("no route matches path", "path", pathOnly)
		if err := r.doc.SetContent(notFoundHTML(pathOnly)); err != nil {
			r.log.Error("failed to render not-found page", "error", err)
		}
		r.commit(ctx, req.opts, nil)
		r.replayTransitionIn(outT)
		return
	}

	r.resolveLazySource(route)

	// Guards, then middleware wrapping the render. An abort leaves the
	// committed route, content, and history untouched, but must still
	// undo the exit effect so the page stays visible.
	if !r.runGuards(ctx, route) {
		r.replayTransitionIn(outT)
		return
	}

	rendered := false
	final := func() error {
		if err := r.renderRoute(ctx, route); err != nil {
			return err
		}
		rendered = true
		return nil
	}

	r.mu.Lock()
	chain := make([]Middleware, 0, len(r.middleware)+len(route.middleware))
	chain = append(chain, r.middleware...)
	chain = append(chain, route.middleware...)
	r.mu.Unlock()

	err := composeMiddleware(ctx, chain, final)
	switch {
	case err == ErrNavigationAborted:
		r.log.Debug("navigation aborted by middleware", "path", req.path)
		r.replayTransitionIn(outT)
		return
	case err != nil:
		r.log.Error("navigation failed", "path", req.path, "error", err)
		r.renderFailureOnRoute(ctx, req, route, err)
		r.runTransitionIn(route)
		return
	case !rendered:
		// Middleware stopped the chain without error.
		r.log.Debug("navigation stopped by middleware", "path", req.path)
		r.replayTransitionIn(outT)
		return
	}

	r.commit(ctx, req.opts, route)
	r.runTransitionIn(route)
	r.notifyRouteChange(ctx)
}

// commit records the navigation in history and as the router's
// committed state.
func (r *Router) commit(ctx *Context, o NavigateOptions, route *Route) {
	r.commitHistory(ctx.FullPath, o)
	r.mu.Lock()
	r.committed = ctx.FullPath
	r.current = route
	r.mu.Unlock()
}

// resolveLazySource fixes a lazy route's content source on first use.
func (r *Router) resolveLazySource(route *Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if route.lazyCfg == nil {
		return
	}
	route.src = resolveSource(route.lazy, route.lazyCfg)
	route.lazy = nil
	route.lazyCfg = nil
}

// runGuards runs the route's guards in order. A guard returning false
// or panicking rejects the navigation; no further guards run.
func (r *Router) runGuards(ctx *Context, route *Route) bool {
	for _, guard := range route.guards {
		ok, panicked := callGuard(guard, ctx)
		if panicked != nil {
			r.log.Error("guard panicked, navigation rejected",
				"path", ctx.Path, "panic", panicked)
			return false
		}
		if !ok {
			r.log.Debug("navigation rejected by guard", "path", ctx.Path)
			return false
		}
	}
	return true
}

// callGuard isolates a guard invocation so a panic rejects only this
// navigation.
func callGuard(guard Guard, ctx *Context) (ok bool, panicked any) {
	defer func() {
		if p := recover(); p != nil {
			panicked = p
			ok = false
		}
	}()
	return guard(ctx), nil
}

// composeMiddleware builds a handler chain from middleware and a final
// handler. Middleware is executed in order (first to last), with the
// handler at the end.
func composeMiddleware(ctx *Context, mw []Middleware, final func() error) error {
	chain := final
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, next)
		}
	}
	return chain()
}

// renderRoute acquires content (honoring the page cache), applies the
// layout, and writes the result through the document, including title,
// meta, and scroll state.
func (r *Router) renderRoute(ctx *Context, route *Route) error {
	out, err := r.acquireContent(ctx, route)
	if err != nil {
		return err
	}

	if route.layoutID != "" {
		out = r.applyLayout(ctx, route, out)
	}

	if err := r.doc.SetContent(out); err != nil {
		return errors.New(errors.CodeNavigationFailed).WithPath(ctx.FullPath).Wrap(err)
	}

	r.applyMeta(ctx, route)
	r.restoreScroll(ctx.FullPath, route)
	return nil
}

// acquireContent produces the route's content, consulting the page
// cache first for cacheable routes. A cache hit skips acquisition
// entirely.
func (r *Router) acquireContent(ctx *Context, route *Route) (string, error) {
	if route.cacheable {
		if cached, ok := r.pageCache.Get(ctx.FullPath); ok {
			r.log.Debug("page cache hit", "path", ctx.FullPath)
			return cached, nil
		}
	}

	out, err := r.produceContent(ctx, route)
	if err != nil {
		return "", err
	}

	if route.cacheable {
		r.pageCache.Set(ctx.FullPath, out)
	}
	return out, nil
}

// produceContent runs the route's content source.
func (r *Router) produceContent(ctx *Context, route *Route) (string, error) {
	switch route.src.kind {
	case sourceRemoteHTML:
		text, err := r.loader.Load(ctx.Ctx, route.src.htmlPath)
		if err != nil {
			return "", err
		}
		return content.Interpolate(text, ctx.Vars()), nil

	case sourceNamed:
		r.mu.Lock()
		handler, ok := r.components[route.src.name]
		r.mu.Unlock()
		if !ok {
			return "", errors.New(errors.CodeComponentMissing).WithPath(route.src.name)
		}
		return handler(ctx)

	case sourceInline:
		return route.src.handler(ctx)

	case sourceRemoteURL:
		return r.loader.Load(ctx.Ctx, route.src.url)

	case sourceTemplate:
		return content.Interpolate(route.src.template, ctx.Vars()), nil

	default:
		return "", errors.New(errors.CodeInvalidHandler).WithPath(route.Pattern)
	}
}

// applyLayout renders the route's layout (cached per layout id and
// path) and splices the content into it. A missing layout is logged and
// treated as no layout.
func (r *Router) applyLayout(ctx *Context, route *Route, contentHTML string) string {
	key := layout.CacheKey(route.layoutID, ctx.Path)

	layoutHTML, ok := r.layoutCache.Get(key)
	if !ok {
		var err error
		layoutHTML, err = r.layouts.Render(route.layoutID, ctx.Vars())
		if err != nil {
			r.log.Warn("layout unavailable, rendering content without it",
				"layout", route.layoutID, "path", ctx.Path, "error", err)
			return contentHTML
		}
		r.layoutCache.Set(key, layoutHTML)
	}

	return layout.Apply(layoutHTML, contentHTML)
}

// applyMeta applies the route's title and meta tags. Functions are
// invoked with the context; static values are used as-is.
func (r *Router) applyMeta(ctx *Context, route *Route) {
	switch t := route.title.(type) {
	case nil:
	case string:
		r.doc.SetTitle(t)
	case func(*Context) string:
		r.doc.SetTitle(t(ctx))
	default:
		r.log.Warn("unsupported title value type", "pattern", route.Pattern)
	}

	switch m := route.meta.(type) {
	case nil:
	case map[string]string:
		for name, value := range m {
			r.doc.SetMeta(name, value)
		}
	case func(*Context) map[string]string:
		for name, value := range m(ctx) {
			r.doc.SetMeta(name, value)
		}
	default:
		r.log.Warn("unsupported meta value type", "pattern", route.Pattern)
	}
}

// restoreScroll restores the saved position for the full path, or
// resets to the top when none is saved and the route asks for it.
func (r *Router) restoreScroll(fullPath string, route *Route) {
	r.mu.Lock()
	pos, ok := r.scroll[fullPath]
	r.mu.Unlock()

	if ok {
		r.doc.ScrollTo(pos.X, pos.Y)
		return
	}
	if route == nil || route.scrollTop {
		r.doc.ScrollTo(0, 0)
	}
}

// renderFailureOnRoute renders a navigation failure, preferring the
// route's error boundary over the router-wide error page.
func (r *Router) renderFailureOnRoute(ctx *Context, req navRequest, route *Route, err error) {
	var out string
	switch {
	case route != nil && route.errorBoundary != nil:
		out = route.errorBoundary(ctx, err)
	default:
		out = r.errorHTML(ctx, err)
	}
	if werr := r.doc.SetContent(out); werr != nil {
		r.log.Error("failed to render error page", "error", werr)
	}
	r.commit(ctx, req.opts, route)
}

// renderFailure renders a failure with no resolved route or context.
func (r *Router) renderFailure(req navRequest, err error) {
	pathOnly, query := routepath.Split(req.path)
	ctx := &Context{
		Ctx:      context.Background(),
		Path:     pathOnly,
		FullPath: req.path,
		Params:   make(map[string]string),
		Query:    routepath.ParseQuery(query),
		router:   r,
	}
	r.renderFailureOnRoute(ctx, req, nil, err)
}

// errorHTML renders the generic navigation-error page, or the
// configured override.
func (r *Router) errorHTML(ctx *Context, err error) string {
	r.mu.Lock()
	custom := r.errorPage
	r.mu.Unlock()
	if custom != nil {
		return custom(ctx, err)
	}
	return fmt.Sprintf(
		"<div class=\"lumen-error\"><h1>Navigation Error</h1><p>%s: %s</p></div>",
		html.EscapeString(ctx.FullPath), html.EscapeString(err.Error()))
}

// notFoundHTML renders the generic not-found page.
func notFoundHTML(path string) string {
	return fmt.Sprintf(
		"<div class=\"lumen-not-found\"><h1>Page Not Found</h1><p>No route matches %s</p></div>",
		html.EscapeString(path))
}

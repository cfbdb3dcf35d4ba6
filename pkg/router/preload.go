package router

import (
	"context"

	"github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/content"
	"github.com/lumen-dev/lumen/pkg/routepath"
)

// Preload fetches and prepares the content for path ahead of
// navigation, so a later Navigate to the same path can serve it from
// the page cache. Routes registered with WithoutPreload are skipped,
// as are routes whose content is produced by a handler rather than
// fetched. Failures are logged and swallowed; a failed preload only
// means the later navigation fetches for itself.
func (r *Router) Preload(ctx context.Context, path string) {
	if err := r.preload(ctx, path); err != nil {
		r.log.Warn("preload failed", "path", path, "error", err)
	}
}

func (r *Router) preload(ctx context.Context, path string) error {
	full, err := routepath.ValidateNavPath(path)
	if err != nil {
		return err
	}
	pathOnly, query := routepath.Split(full)

	r.mu.Lock()
	route, params := r.registry.match(pathOnly)
	r.mu.Unlock()
	if route == nil {
		return errors.New(errors.CodeRouteNotFound).WithPath(pathOnly)
	}
	if !route.preload {
		r.log.Debug("preload disabled for route", "pattern", route.Pattern)
		return nil
	}

	r.resolveLazySource(route)

	if params == nil {
		params = make(map[string]string)
	}
	rctx := &Context{
		Ctx:      ctx,
		Path:     pathOnly,
		FullPath: full,
		Params:   params,
		Query:    routepath.ParseQuery(query),
		Route:    route,
		router:   r,
	}

	switch route.src.kind {
	case sourceRemoteHTML:
		text, err := r.loader.Load(ctx, route.src.htmlPath)
		if err != nil {
			return err
		}
		if route.cacheable {
			r.pageCache.Set(full, content.Interpolate(text, rctx.Vars()))
		}
	case sourceRemoteURL:
		text, err := r.loader.Load(ctx, route.src.url)
		if err != nil {
			return err
		}
		if route.cacheable {
			r.pageCache.Set(full, text)
		}
	default:
		r.log.Debug("nothing to preload for route", "pattern", route.Pattern)
	}
	return nil
}

// PreloadAll preloads every given path, continuing past individual
// failures.
func (r *Router) PreloadAll(ctx context.Context, paths ...string) {
	for _, p := range paths {
		r.Preload(ctx, p)
	}
}

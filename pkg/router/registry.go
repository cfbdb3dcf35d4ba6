package router

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lumen-dev/lumen/pkg/routepath"
)

// registry stores route definitions in registration order.
type registry struct {
	routes    []*Route
	byPattern map[string]*Route
	log       *slog.Logger
}

func newRegistry(log *slog.Logger) *registry {
	return &registry{
		byPattern: make(map[string]*Route),
		log:       log,
	}
}

// add stores a route. Re-registering an existing pattern replaces the
// earlier definition, keeping its precedence slot. The slot is swapped
// to the new *Route rather than written through the old pointer; an
// in-flight navigation holding the old route keeps reading a
// definition that never changes under it.
func (rg *registry) add(route *Route) {
	if _, ok := rg.byPattern[route.Pattern]; ok {
		rg.log.Debug("route pattern re-registered, replacing earlier definition",
			"pattern", route.Pattern)
		for i, existing := range rg.routes {
			if existing.Pattern == route.Pattern {
				rg.routes[i] = route
				break
			}
		}
		rg.byPattern[route.Pattern] = route
		return
	}
	rg.routes = append(rg.routes, route)
	rg.byPattern[route.Pattern] = route
}

// match resolves a pathname to the first accepting route in
// registration order. When no route accepts the full pathname, trailing
// segments are stripped one at a time (down to a single segment) and
// each prefix retried, so child paths fall back to ancestor routes.
// Returns nil when nothing matches.
func (rg *registry) match(pathname string) (*Route, map[string]string) {
	if route, params := rg.matchExact(pathname); route != nil {
		return route, params
	}

	segs := routepath.Segments(pathname)
	for n := len(segs) - 1; n >= 1; n-- {
		prefix := "/" + strings.Join(segs[:n], "/")
		if route, params := rg.matchExact(prefix); route != nil {
			return route, params
		}
	}
	return nil, nil
}

// matchExact tries every route in registration order against the exact
// pathname.
func (rg *registry) matchExact(pathname string) (*Route, map[string]string) {
	for _, route := range rg.routes {
		if params, ok := route.matcher.match(pathname); ok {
			return route, params
		}
	}
	return nil, nil
}

// get returns the route registered under pattern, if any.
func (rg *registry) get(pattern string) (*Route, bool) {
	route, ok := rg.byPattern[pattern]
	return route, ok
}

// len returns the number of registered routes.
func (rg *registry) len() int {
	return len(rg.routes)
}

// patterns returns the registered patterns in registration order.
func (rg *registry) patterns() []string {
	out := make([]string, len(rg.routes))
	for i, r := range rg.routes {
		out[i] = r.Pattern
	}
	return out
}

// joinPatterns composes a child pattern onto its parent pattern.
func joinPatterns(parent, child string) string {
	return routepath.Join(parent, child)
}

// sortedKeys returns map keys in a stable order, used when a batch of
// routes arrives as a map and registration order must be deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

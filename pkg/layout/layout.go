// Package layout renders wrapper templates around route content.
//
// A layout is a registered render function producing HTML that contains
// the literal {{content}} placeholder. After a route's content is
// produced, the router renders the route's layout (if any) and splices
// the content into the placeholder. Layout renderers receive the same
// variable bundle as template interpolation: path, fullPath, params and
// query.
package layout

import (
	"strings"
	"sync"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Placeholder is the literal marker replaced with route content.
const Placeholder = "{{content}}"

// Renderer produces a layout's HTML for a navigation.
type Renderer func(vars map[string]any) (string, error)

// Registry stores layout renderers by id.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]Renderer
}

// NewRegistry creates an empty layout registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Renderer)}
}

// Register stores a renderer under id, replacing any previous one.
func (r *Registry) Register(id string, fn Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[id] = fn
}

// Render invokes the renderer registered under id.
// A missing id yields a CodeLayoutMissing error.
func (r *Registry) Render(id string, vars map[string]any) (string, error) {
	r.mu.RLock()
	fn, ok := r.layouts[id]
	r.mu.RUnlock()

	if !ok {
		return "", errors.New(errors.CodeLayoutMissing).WithPath(id)
	}
	return fn(vars)
}

// Has reports whether a renderer is registered under id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.layouts[id]
	return ok
}

// Apply splices content into the layout's {{content}} placeholder.
// Every occurrence of the placeholder is replaced.
func Apply(layoutHTML, content string) string {
	return strings.ReplaceAll(layoutHTML, Placeholder, content)
}

// CacheKey builds the layout cache key for a layout id and path.
func CacheKey(id, path string) string {
	return id + ":" + path
}

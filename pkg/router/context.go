package router

import (
	"context"
)

// Context is the per-navigation bundle passed to handlers, guards, and
// middleware. It is constructed when route resolution starts and
// superseded entirely by the next navigation's context; handlers must
// not retain it past the navigation.
type Context struct {
	// Ctx carries cancellation for I/O performed on behalf of the
	// navigation (content fetches, layout rendering).
	Ctx context.Context

	// Path is the canonical pathname without the query string.
	Path string

	// FullPath is the pathname with the query string attached.
	FullPath string

	// Params maps dynamic-segment names to their captured values.
	Params map[string]string

	// Query maps decoded query keys to values.
	Query map[string]string

	// Route is the matched route definition.
	Route *Route

	router *Router
}

// Navigate requests a navigation to path. If a navigation is in flight
// the request is queued behind it.
func (c *Context) Navigate(path string, opts ...NavigateOption) {
	c.router.Navigate(path, opts...)
}

// Redirect navigates to path replacing the current history entry.
func (c *Context) Redirect(path string) {
	c.router.Redirect(path)
}

// SetTitle sets the document title.
func (c *Context) SetTitle(title string) {
	c.router.doc.SetTitle(title)
}

// SetMeta sets a document meta tag.
func (c *Context) SetMeta(name, content string) {
	c.router.doc.SetMeta(name, content)
}

// Vars returns the interpolation bundle for template placeholders:
// path, fullPath, params.* and query.*.
func (c *Context) Vars() map[string]any {
	return map[string]any{
		"path":     c.Path,
		"fullPath": c.FullPath,
		"params":   c.Params,
		"query":    c.Query,
	}
}

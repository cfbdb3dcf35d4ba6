// Package dom abstracts the document surface the router renders into.
//
// The router never touches a browser API directly; it talks to a
// Document. Tests and server-side rendering use the in-memory
// implementation, while a wasm build supplies a binding over the real
// DOM. Only the operations the navigation pipeline needs are modeled:
// replacing the mount point's content, title and meta management,
// scrolling, and dispatching the environment-level route-change event.
package dom

import "sync"

// Document is the rendering surface for committed navigations.
// Implementations must be safe for concurrent use.
type Document interface {
	// SetContent replaces the mount point's contents with html.
	SetContent(html string) error

	// Content returns the current mount point contents.
	Content() string

	// SetTitle sets the page title.
	SetTitle(title string)

	// Title returns the current page title.
	Title() string

	// SetMeta sets a meta tag by name, creating it when absent.
	SetMeta(name, content string)

	// Meta returns the content of a meta tag, or "" when absent.
	Meta(name string) string

	// ScrollTo scrolls the viewport to the given coordinates.
	ScrollTo(x, y int)

	// ScrollPosition returns the current viewport scroll coordinates.
	ScrollPosition() (x, y int)

	// DispatchRouteChange publishes the environment-level route-change
	// event with the given payload.
	DispatchRouteChange(payload any)

	// SetLoading toggles the navigation loading indicator.
	SetLoading(loading bool)
}

// Memory is an in-memory Document used by tests and server-side runs.
type Memory struct {
	mu       sync.Mutex
	content  string
	title    string
	meta     map[string]string
	scrollX  int
	scrollY  int
	loading  bool
	events   []any
	opacity  float64
	hasFaded bool
}

// NewMemory creates an empty in-memory document.
func NewMemory() *Memory {
	return &Memory{
		meta:    make(map[string]string),
		opacity: 1,
	}
}

// SetContent implements Document.
func (d *Memory) SetContent(html string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = html
	return nil
}

// Content implements Document.
func (d *Memory) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// SetTitle implements Document.
func (d *Memory) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

// Title implements Document.
func (d *Memory) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// SetMeta implements Document.
func (d *Memory) SetMeta(name, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meta[name] = content
}

// Meta implements Document.
func (d *Memory) Meta(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.meta[name]
}

// ScrollTo implements Document.
func (d *Memory) ScrollTo(x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrollX, d.scrollY = x, y
}

// ScrollPosition implements Document.
func (d *Memory) ScrollPosition() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollX, d.scrollY
}

// DispatchRouteChange implements Document. Payloads are recorded and can
// be inspected with Events.
func (d *Memory) DispatchRouteChange(payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, payload)
}

// SetLoading implements Document.
func (d *Memory) SetLoading(loading bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = loading
}

// Loading reports whether the loading indicator is shown.
func (d *Memory) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Events returns the dispatched route-change payloads in order.
func (d *Memory) Events() []any {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]any, len(d.events))
	copy(out, d.events)
	return out
}

// SetOpacity records the mount opacity. Used by the default transition.
func (d *Memory) SetOpacity(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opacity = v
	d.hasFaded = true
}

// Opacity returns the recorded mount opacity.
func (d *Memory) Opacity() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opacity
}

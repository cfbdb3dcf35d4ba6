package router

import (
	"github.com/lumen-dev/lumen/pkg/history"
	"github.com/lumen-dev/lumen/pkg/routepath"
)

// NavigateOptions configures a navigation request.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Force runs the navigation immediately even when another is in
	// flight, and re-renders even when the target equals the committed
	// path.
	Force bool

	// fromPop marks navigations triggered by history pop; they never
	// write history themselves.
	fromPop bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) { o.Replace = true }
}

// WithForce runs the navigation immediately, bypassing the queue and
// the same-path no-op check.
func WithForce() NavigateOption {
	return func(o *NavigateOptions) { o.Force = true }
}

// withPop marks a pop-triggered navigation.
func withPop() NavigateOption {
	return func(o *NavigateOptions) {
		o.fromPop = true
		o.Replace = true
	}
}

// navRequest is a queued navigation.
type navRequest struct {
	path string
	opts NavigateOptions
}

// Navigate drives a navigation to path.
//
// Requests issued while another navigation is in flight are queued FIFO
// and run one at a time after it completes; forced requests run
// immediately and leave the queue untouched. Navigating to the
// committed full path without Force is a no-op. Navigate never returns
// an error: every failure is rendered and logged, and the queue is
// drained regardless of outcome.
func (r *Router) Navigate(path string, opts ...NavigateOption) {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	full, err := routepath.ValidateNavPath(path)
	if err != nil {
		r.log.Warn("rejected navigation target", "path", path, "error", err)
		return
	}

	r.mu.Lock()
	if full == r.committed && !o.Force && !o.fromPop {
		r.mu.Unlock()
		return
	}
	if r.transitioning && !o.Force {
		r.queue = append(r.queue, navRequest{path: full, opts: o})
		r.mu.Unlock()
		return
	}
	r.transitioning = true
	r.mu.Unlock()

	r.runLoop(navRequest{path: full, opts: o})
}

// runLoop performs a navigation and then drains the queue, one request
// at a time. The transitioning flag is cleared no matter how each
// navigation ends.
func (r *Router) runLoop(req navRequest) {
	for {
		r.perform(req)

		r.mu.Lock()
		if len(r.queue) == 0 {
			r.transitioning = false
			r.mu.Unlock()
			return
		}
		req = r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
	}
}

// Redirect navigates to path, replacing the current history entry.
func (r *Router) Redirect(path string, opts ...NavigateOption) {
	r.Navigate(path, append([]NavigateOption{WithReplace()}, opts...)...)
}

// Back delegates to the environment history.
func (r *Router) Back() { r.history.Back() }

// Forward delegates to the environment history.
func (r *Router) Forward() { r.history.Forward() }

// handlePop re-resolves the path carried in a popped history entry.
// Entries without a recorded path (created before the router attached,
// or by external code) fall back to the current location. Pops queue
// behind an in-flight navigation like any other request; they bypass
// only the same-path no-op check, since the history position has
// already moved.
func (r *Router) handlePop(e history.Entry) {
	path := e.Path
	if path == "" {
		if cur, ok := r.history.Current(); ok {
			path = cur.Path
		}
	}
	if path == "" {
		return
	}
	r.Navigate(path, withPop())
}

// commitHistory records a committed navigation in the environment
// history. Pop-triggered navigations skip this; the entry is already
// current.
func (r *Router) commitHistory(fullPath string, o NavigateOptions) {
	if o.fromPop {
		return
	}
	entry := history.NewEntry(fullPath)
	if o.Replace {
		r.history.Replace(entry)
		return
	}
	r.history.Push(entry)
}

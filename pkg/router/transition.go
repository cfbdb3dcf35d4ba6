package router

import "github.com/lumen-dev/lumen/pkg/dom"

// Effect runs one direction of a page transition against the document.
type Effect func(doc dom.Document)

// Transition pairs the exit effect of the outgoing page with the entry
// effect of the incoming one.
type Transition struct {
	Out Effect
	In  Effect
}

// fader is implemented by documents that can adjust page opacity.
type fader interface {
	SetOpacity(v float64)
}

// Fade is the default transition: the outgoing page fades to
// transparent and the incoming page fades back in. Documents without
// opacity support are left untouched.
var Fade = Transition{
	Out: func(doc dom.Document) {
		if f, ok := doc.(fader); ok {
			f.SetOpacity(0)
		}
	},
	In: func(doc dom.Document) {
		if f, ok := doc.(fader); ok {
			f.SetOpacity(1)
		}
	},
}

// None disables transitions for a route.
var None = Transition{}

// RegisterTransition makes a named transition available to routes
// registered with WithTransition. Registering an existing name replaces
// it.
func (r *Router) RegisterTransition(name string, t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[name] = t
}

// transitionFor resolves a route's transition. Routes without an
// explicit transition use the default fade; an unknown name is logged
// and treated as none.
func (r *Router) transitionFor(route *Route) Transition {
	if route == nil {
		return None
	}
	if route.transition == "" {
		return Fade
	}
	r.mu.Lock()
	t, ok := r.transitions[route.transition]
	r.mu.Unlock()
	if !ok {
		r.log.Warn("unknown transition", "name", route.transition, "pattern", route.Pattern)
		return None
	}
	return t
}

// runTransitionOut runs the route's exit effect and returns the
// transition so the caller can replay its entry effect when the
// navigation ends without reaching the incoming route's transition.
func (r *Router) runTransitionOut(route *Route) Transition {
	t := r.transitionFor(route)
	if t.Out != nil {
		t.Out(r.doc)
	}
	return t
}

func (r *Router) runTransitionIn(route *Route) {
	if t := r.transitionFor(route); t.In != nil {
		t.In(r.doc)
	}
}

// replayTransitionIn reruns the entry effect of a transition whose exit
// effect already ran. Rejected, aborted, and failed navigations use it
// to leave the current page visible.
func (r *Router) replayTransitionIn(t Transition) {
	if t.In != nil {
		t.In(r.doc)
	}
}

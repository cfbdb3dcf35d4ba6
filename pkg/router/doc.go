// Package router implements Lumen's client-side navigation core.
//
// The router resolves a path to a registered route, extracts parameters,
// applies guards and middleware, acquires content, wraps it in a layout,
// and commits the result to the document while managing history, scroll
// positions, and transitions.
//
// # Route Patterns
//
// Patterns are path templates with dynamic and catch-all segments:
//
//	/about                 static
//	/users/[id]            dynamic segment (one non-slash segment)
//	/files/[...path]       catch-all (rest of the path, slashes included)
//
// Registration order is precedence: the first registered pattern whose
// matcher accepts the path wins. When no pattern matches, the path is
// progressively shortened one trailing segment at a time and retried, so
// a child path can fall back to an ancestor's route.
//
// # Content Sources
//
// A route's content comes from exactly one source, fixed at
// registration: an inline handler function, a registered component name,
// a remote HTML resource (with {{dotted.path}} interpolation), a raw
// remote URL, or an inline template string.
//
// # Navigation
//
// Navigations are serialized: requests issued while another navigation
// is in flight are queued FIFO and run one at a time. A navigation to
// the committed path is a no-op unless forced. Guards and middleware can
// abort a navigation before any content changes; failures during
// rendering are caught and rendered as an error page, never raised to
// the Navigate caller.
//
// # Usage
//
//	r := router.New(router.WithDocument(doc), router.WithHistory(hist))
//	r.AddRoute("/", homeHandler)
//	r.AddRoute("/users/[id]", userHandler, router.WithCache())
//	r.Navigate("/users/7?tab=profile")
package router

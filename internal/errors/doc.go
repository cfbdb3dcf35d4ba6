// Package errors provides structured, actionable error messages for Lumen.
//
// Every failure surfaced by the framework carries a category and, where
// the failure is a well-known condition, a registered code that maps to
// a short message, a detailed explanation, and a documentation URL.
//
// # Error Categories
//
//   - route: route registration and matching failures
//   - guard: guard and middleware rejections
//   - content: content acquisition failures (fetch, lookup, handler shape)
//   - navigation: failures escaping the navigation pipeline
//   - config: project configuration errors
//   - store: state storage backend errors
//   - cli: command-line tool errors
//
// # Usage
//
//	err := errors.New("L101").
//	    WithPath("/admin/users").
//	    WithSuggestion("Register the route before starting navigation")
//
//	fmt.Println(err.Format())
package errors

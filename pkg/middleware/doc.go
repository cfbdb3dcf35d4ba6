// Package middleware provides ready-made navigation middleware:
// Prometheus metrics and OpenTelemetry tracing for route transitions.
//
// Both integrate through the router's middleware chain:
//
//	rt.Use(
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    middleware.OpenTelemetry(),
//	)
package middleware

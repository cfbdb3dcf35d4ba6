package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// Well-known error codes.
const (
	CodeRouteNotFound      = "L101"
	CodeDuplicateRoute     = "L102"
	CodeInvalidPattern     = "L103"
	CodeGuardRejected      = "L201"
	CodeMiddlewareRejected = "L202"
	CodeInvalidHandler     = "L301"
	CodeFetchFailed        = "L302"
	CodeComponentMissing   = "L303"
	CodeLayoutMissing      = "L304"
	CodeNavigationFailed   = "L401"
	CodeConfigInvalid      = "L501"
	CodeStoreUnavailable   = "L601"
	CodeStoreKeyMissing    = "L602"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Errors (L1xx)
	// ============================================

	CodeRouteNotFound: {
		Category: CategoryRoute,
		Message:  "No route matches the requested path",
		Detail:   "The path did not match any registered route pattern, including prefix fallback to ancestor routes.",
		DocURL:   "https://lumen.dev/docs/errors/L101",
	},
	CodeDuplicateRoute: {
		Category: CategoryRoute,
		Message:  "Route pattern registered more than once",
		Detail:   "Registering an identical pattern replaces the earlier definition. The last registration wins.",
		DocURL:   "https://lumen.dev/docs/errors/L102",
	},
	CodeInvalidPattern: {
		Category: CategoryRoute,
		Message:  "Route pattern could not be compiled",
		Detail:   "Dynamic segments use [name] and catch-all segments use [...name]. Other bracket forms are invalid.",
		DocURL:   "https://lumen.dev/docs/errors/L103",
	},

	// ============================================
	// Guard / Middleware Errors (L2xx)
	// ============================================

	CodeGuardRejected: {
		Category: CategoryGuard,
		Message:  "Navigation rejected by route guard",
		Detail:   "A guard returned false or panicked. The navigation was aborted and the committed route is unchanged.",
		DocURL:   "https://lumen.dev/docs/errors/L201",
	},
	CodeMiddlewareRejected: {
		Category: CategoryGuard,
		Message:  "Navigation rejected by middleware",
		Detail:   "A middleware aborted the chain. The navigation was cancelled before content acquisition.",
		DocURL:   "https://lumen.dev/docs/errors/L202",
	},

	// ============================================
	// Content Errors (L3xx)
	// ============================================

	CodeInvalidHandler: {
		Category: CategoryContent,
		Message:  "Invalid route handler",
		Detail:   "The route has no usable content source. Provide an inline handler, a component name, a remote HTML path, or a URL string.",
		DocURL:   "https://lumen.dev/docs/errors/L301",
	},
	CodeFetchFailed: {
		Category: CategoryContent,
		Message:  "Remote content fetch failed",
		Detail:   "The HTTP request for the route's remote content did not complete successfully.",
		DocURL:   "https://lumen.dev/docs/errors/L302",
	},
	CodeComponentMissing: {
		Category: CategoryContent,
		Message:  "Named component is not registered",
		Detail:   "The route references a component name that has not been registered with the content registry.",
		DocURL:   "https://lumen.dev/docs/errors/L303",
	},
	CodeLayoutMissing: {
		Category: CategoryContent,
		Message:  "Layout is not registered",
		Detail:   "The route references a layout id with no registered renderer. Content is rendered without a layout.",
		DocURL:   "https://lumen.dev/docs/errors/L304",
	},

	// ============================================
	// Navigation Errors (L4xx)
	// ============================================

	CodeNavigationFailed: {
		Category: CategoryNavigation,
		Message:  "Navigation failed",
		Detail:   "An error escaped the navigation pipeline. A generic error page was rendered and the queue was drained.",
		DocURL:   "https://lumen.dev/docs/errors/L401",
	},

	// ============================================
	// Config Errors (L5xx)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Project configuration is invalid",
		Detail:   "lumen.json (or lumen.yaml) could not be parsed or contains invalid values.",
		DocURL:   "https://lumen.dev/docs/errors/L501",
	},

	// ============================================
	// Store Errors (L6xx)
	// ============================================

	CodeStoreUnavailable: {
		Category: CategoryStore,
		Message:  "State store backend unavailable",
		Detail:   "The configured storage backend could not be opened or has been closed.",
		DocURL:   "https://lumen.dev/docs/errors/L601",
	},
	CodeStoreKeyMissing: {
		Category: CategoryStore,
		Message:  "Key not found in state store",
		DocURL:   "https://lumen.dev/docs/errors/L602",
	},
}

package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumen-dev/lumen/pkg/router"
)

const defaultTracerName = "lumen/router"

// OTelConfig configures the OpenTelemetry navigation middleware.
type OTelConfig struct {
	// TracerName is the tracer name (default: "lumen/router").
	TracerName string

	// IncludeQuery includes query parameters as span attributes. Query
	// strings can carry sensitive values, so this is off by default.
	IncludeQuery bool

	// Filter decides which navigations to trace. Nil traces all.
	Filter func(ctx *router.Context) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ctx *router.Context) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry navigation middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) { c.TracerName = name }
}

// WithIncludeQuery enables recording query parameters on spans.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) { c.IncludeQuery = include }
}

// WithNavigationFilter sets a filter deciding which navigations are
// traced.
func WithNavigationFilter(filter func(ctx *router.Context) bool) OTelOption {
	return func(c *OTelConfig) { c.Filter = filter }
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *router.Context) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) { c.AttributeExtractor = extractor }
}

// OpenTelemetry returns middleware that opens a span per navigation,
// injects it into the navigation's context for downstream fetches, and
// records the outcome. The tracer comes from the global provider; set
// one with otel.SetTracerProvider before the first navigation.
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("lumen.path", ctx.Path),
			attribute.String("lumen.full_path", ctx.FullPath),
		}
		if ctx.Route != nil {
			attrs = append(attrs, attribute.String("lumen.route", ctx.Route.Pattern))
		}
		if config.IncludeQuery {
			for k, v := range ctx.Query {
				attrs = append(attrs, attribute.String("lumen.query."+k, v))
			}
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx.Ctx,
			spanName(ctx),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		// Downstream content fetches inherit the navigation span.
		prev := ctx.Ctx
		ctx.Ctx = spanCtx
		defer func() { ctx.Ctx = prev }()

		err := next()

		switch {
		case err == router.ErrNavigationAborted:
			span.SetStatus(codes.Ok, "aborted")
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

func spanName(ctx *router.Context) string {
	if ctx.Route != nil && ctx.Route.Pattern != "" {
		return "navigate " + ctx.Route.Pattern
	}
	return "navigate " + ctx.Path
}

package middleware

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/router"
)

// MetricsConfig configures the Prometheus navigation middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lumen").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to register with.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lumen",
		Subsystem: "router",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// navMetrics holds the collectors for one Prometheus middleware
// instance. Labels use the route pattern, not the concrete path, to
// keep cardinality bounded.
type navMetrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
}

func newNavMetrics(config MetricsConfig) *navMetrics {
	factory := promauto.With(config.Registry)

	return &navMetrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total navigations by route pattern and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation pipeline duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"pattern"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total navigation failures by route pattern and error code",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "code"}),
	}
}

// Prometheus returns middleware that records per-navigation metrics:
//
//   - <ns>_router_navigations_total{pattern,status}
//   - <ns>_router_navigation_duration_seconds{pattern}
//   - <ns>_router_navigation_errors_total{pattern,code}
//
// An aborted navigation counts with status "aborted" and is not an
// error. Expose the registry with promhttp in your server setup.
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := newNavMetrics(config)

	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		pattern := routePattern(ctx)
		start := time.Now()

		err := next()

		m.navigationDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())

		switch {
		case err == router.ErrNavigationAborted:
			m.navigationsTotal.WithLabelValues(pattern, "aborted").Inc()
		case err != nil:
			m.navigationsTotal.WithLabelValues(pattern, "error").Inc()
			m.navigationErrors.WithLabelValues(pattern, errorCode(err)).Inc()
		default:
			m.navigationsTotal.WithLabelValues(pattern, "success").Inc()
		}
		return err
	})
}

// routePattern labels a navigation by its route pattern so that
// /users/1 and /users/2 share a series.
func routePattern(ctx *router.Context) string {
	if ctx.Route != nil && ctx.Route.Pattern != "" {
		return ctx.Route.Pattern
	}
	return ctx.Path
}

// errorCode labels a failure by its structured error code rather than
// the message, which would be unbounded.
func errorCode(err error) string {
	var le *errors.LumenError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return "unknown"
}

package middlewares

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/actionkit/internal"
)

// MetricsConfig configures the Metrics middleware.
type MetricsConfig struct {
	Registerer prometheus.Registerer
	Namespace  string
	Buckets    []float64
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsRegisterer registers the collectors with reg instead of the
// default registry.
func WithMetricsRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(cfg *MetricsConfig) {
		if reg != nil {
			cfg.Registerer = reg
		}
	}
}

// WithMetricsNamespace prefixes metric names.
func WithMetricsNamespace(ns string) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Namespace = ns
	}
}

// WithMetricsBuckets sets the latency histogram buckets in seconds.
func WithMetricsBuckets(buckets ...float64) MetricsOption {
	return func(cfg *MetricsConfig) {
		if len(buckets) > 0 {
			cfg.Buckets = buckets
		}
	}
}

// Metrics returns middleware that counts requests and observes their
// latency, labelled by method, controller, action and status. Requests
// that matched no action are labelled with an empty controller, which
// keeps label cardinality bounded.
//
// Creating Metrics twice against one registry reuses the collectors.
func Metrics(opts ...MetricsOption) internal.Middleware {
	cfg := &MetricsConfig{
		Registerer: prometheus.DefaultRegisterer,
		Buckets:    prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	labels := []string{"method", "controller", "action", "status"}
	requests := register(cfg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, labels))
	duration := register(cfg.Registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   cfg.Buckets,
	}, labels))

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			status := c.ResponseWriter().Status()
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if he := internal.AsHTTPError(err); he != nil {
					status = he.Code
				}
			}

			values := []string{c.Request().Method, c.ControllerPath(), c.ActionName(), strconv.Itoa(status)}
			requests.WithLabelValues(values...).Inc()
			duration.WithLabelValues(values...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// register returns the collector already registered under the same
// description, if any.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// MetricsHandler serves the metrics gathered by g in the Prometheus text
// format. Mount it with Router.Mount or the app router.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

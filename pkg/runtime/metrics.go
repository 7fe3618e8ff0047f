package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vcommit/internal/errors"
)

// MetricsConfig configures the commit metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vcommit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the commit metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vcommit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors a Runtime records into.
//
// Metrics collected:
//   - vcommit_passes_total: Counter of commit passes by status
//   - vcommit_pass_duration_seconds: Histogram of pass duration
//   - vcommit_mutations_total: Counter of document mutations by op
//   - vcommit_tasks_total: Counter of commit tasks drained
//   - vcommit_effects_total: Counter of lifecycle effects run
//   - vcommit_structural_errors_total: Counter of structural errors by code
//   - vcommit_pending_updates: Gauge of nodes waiting for a render pass
type Metrics struct {
	passesTotal      *prometheus.CounterVec
	passDuration     prometheus.Histogram
	mutationsTotal   *prometheus.CounterVec
	tasksTotal       prometheus.Counter
	effectsTotal     prometheus.Counter
	structuralErrors *prometheus.CounterVec
	pendingUpdates   prometheus.Gauge
}

// NewMetrics creates and registers the commit metrics.
// Registering twice on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of commit passes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Commit pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total number of document mutations issued by commit passes",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		tasksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_total",
			Help:        "Total number of commit tasks drained",
			ConstLabels: config.ConstLabels,
		}),

		effectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of lifecycle effects run after commit passes",
			ConstLabels: config.ConstLabels,
		}),

		structuralErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "structural_errors_total",
			Help:        "Total structural errors reported during commit passes",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		pendingUpdates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_updates",
			Help:        "Number of nodes that requested an update and await a render pass",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordPass(res *Result) {
	if m == nil {
		return
	}
	status := "success"
	if len(res.Errors) > 0 {
		status = "error"
	}
	m.passesTotal.WithLabelValues(status).Inc()
	m.passDuration.Observe(res.Duration.Seconds())
	m.tasksTotal.Add(float64(res.Tasks))
	m.effectsTotal.Add(float64(res.Effects))
	for _, mut := range res.Mutations {
		m.mutationsTotal.WithLabelValues(mut.Op.String()).Inc()
	}
}

func (m *Metrics) recordError(err error) {
	if m == nil {
		return
	}
	code := errors.Code(err)
	if code == "" {
		code = "unknown"
	}
	m.structuralErrors.WithLabelValues(code).Inc()
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pendingUpdates.Set(float64(n))
}

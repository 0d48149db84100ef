package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// MetricsConfig configures Metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "anchor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "anchor",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors. It is safe for concurrent use by
// many sessions.
type Metrics struct {
	effectRuns       prometheus.Counter
	overruns         prometheus.Counter
	subscriberPanics prometheus.Counter
	computedWrites   prometheus.Counter
	reconcilePasses  *prometheus.CounterVec
	reconcileNodes   *prometheus.CounterVec
	hydrations       *prometheus.CounterVec
	liveSessions     prometheus.Gauge
	mutationsSent    prometheus.Counter
}

// NewMetrics creates and registers the collectors. Registering twice on the
// same registry panics, as with any Prometheus collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Metrics{
		effectRuns:       counter("effect_runs_total", "Total number of effect runs"),
		overruns:         counter("effect_convergence_exceeded_total", "Effects stopped at the iteration cap"),
		subscriberPanics: counter("subscriber_panics_total", "Subscriber callbacks that panicked"),
		computedWrites:   counter("computed_write_rejections_total", "Rejected writes to computed values"),
		reconcilePasses:  counterVec("reconcile_passes_total", "Reconciliation passes by primitive", "primitive"),
		reconcileNodes:   counterVec("reconcile_nodes_total", "Instances created, reused, removed and nodes moved", "primitive", "op"),
		hydrations:       counterVec("hydrations_total", "Hydration calls by outcome", "outcome"),
		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of open live sessions",
			ConstLabels: config.ConstLabels,
		}),
		mutationsSent: counter("mutations_sent_total", "Tree mutations sent to live hosts"),
	}
}

func (m *Metrics) EffectRun()                 { m.effectRuns.Inc() }
func (m *Metrics) EffectConvergenceExceeded() { m.overruns.Inc() }
func (m *Metrics) SubscriberPanicked()        { m.subscriberPanics.Inc() }
func (m *Metrics) ComputedWriteRejected()     { m.computedWrites.Inc() }

// Reconciled records one reconciliation pass.
func (m *Metrics) Reconciled(primitive string, s reactive.ReconcileStats) {
	m.reconcilePasses.WithLabelValues(primitive).Inc()
	for op, n := range map[string]int{
		"created": s.Created,
		"reused":  s.Reused,
		"removed": s.Removed,
		"moved":   s.Moved,
	} {
		if n > 0 {
			m.reconcileNodes.WithLabelValues(primitive, op).Add(float64(n))
		}
	}
}

// Hydrated records a hydration outcome.
func (m *Metrics) Hydrated(outcome string) {
	m.hydrations.WithLabelValues(outcome).Inc()
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() { m.liveSessions.Inc() }

// SessionClosed records the end of a live session.
func (m *Metrics) SessionClosed() { m.liveSessions.Dec() }

// MutationsSent records mutations delivered to a live host.
func (m *Metrics) MutationsSent(n int) { m.mutationsSent.Add(float64(n)) }

var _ reactive.Observer = (*Metrics)(nil)

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Disconnect reasons reported in metrics and logs.
const (
	ReasonReadError        = "read_error"
	ReasonWriteError       = "write_error"
	ReasonClosed           = "closed"
	ReasonMailboxFull      = "mailbox_full"
	ReasonDispatcherClosed = "dispatcher_closed"
	ReasonPanic            = "panic"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "monolith").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration histogram buckets.
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
		Namespace: "monolith",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a Dispatcher and its sessions.
// A nil *Metrics records nothing.
type Metrics struct {
	sessionsActive   prometheus.Gauge
	sessionsTotal    prometheus.Counter
	acceptRejected   prometheus.Counter
	eventsTotal      *prometheus.CounterVec
	decodeErrors     prometheus.Counter
	framesSent       prometheus.Counter
	patchesSent      prometheus.Counter
	noopRenders      prometheus.Counter
	renderDuration   prometheus.Histogram
	disconnectsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
//
// Metrics collected:
//   - monolith_sessions_active: Gauge of registered sessions
//   - monolith_sessions_total: Counter of registered sessions
//   - monolith_accept_rejected_total: Counter of connections refused by a full accept queue
//   - monolith_events_total: Counter of events delivered by type
//   - monolith_decode_errors_total: Counter of dropped inbound frames
//   - monolith_frames_sent_total: Counter of outbound frames
//   - monolith_patches_sent_total: Counter of patches sent
//   - monolith_noop_renders_total: Counter of renders that produced no patches
//   - monolith_render_duration_seconds: Histogram of diff and write duration
//   - monolith_disconnects_total: Counter of disconnects by reason
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_active",
			Help:        "Number of registered sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_total",
			Help:        "Total number of registered sessions",
			ConstLabels: config.ConstLabels,
		}),

		acceptRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "accept_rejected_total",
			Help:        "Total number of connections refused because the accept queue was full",
			ConstLabels: config.ConstLabels,
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of client events delivered by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "decode_errors_total",
			Help:        "Total number of inbound frames dropped because they could not be decoded",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of outbound frames",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		noopRenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "noop_renders_total",
			Help:        "Total number of renders that produced no patches",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Time spent diffing and writing one render in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		disconnectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "disconnects_total",
			Help:        "Total number of session disconnects by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),
	}
}

func (m *Metrics) sessionRegistered() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
	m.sessionsTotal.Inc()
}

func (m *Metrics) sessionRemoved() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

func (m *Metrics) acceptRejectedInc() {
	if m == nil {
		return
	}
	m.acceptRejected.Inc()
}

func (m *Metrics) event(eventType string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(eventType).Inc()
}

func (m *Metrics) decodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) frameSent(patches int) {
	if m == nil {
		return
	}
	m.framesSent.Inc()
	m.patchesSent.Add(float64(patches))
}

func (m *Metrics) noopRender() {
	if m == nil {
		return
	}
	m.noopRenders.Inc()
}

func (m *Metrics) observeRender(seconds float64) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(seconds)
}

func (m *Metrics) disconnect(reason string) {
	if m == nil {
		return
	}
	m.disconnectsTotal.WithLabelValues(reason).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for credential discovery
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec

	// Credential file metrics
	CredentialFileErrors *prometheus.CounterVec

	// Metadata probe metrics
	MetadataProbeResults  *prometheus.CounterVec
	MetadataProbeDuration *prometheus.HistogramVec
}

// Config holds configuration for metrics
type Config struct {
	// Namespace for metrics (default: "gcpadc")
	Namespace string

	// Subsystem for metrics (default: "")
	Subsystem string

	// Registry to use (default: prometheus.DefaultRegisterer)
	Registry prometheus.Registerer
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() Config {
	return Config{
		Namespace: "gcpadc",
		Subsystem: "",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(config Config) *Metrics {
	if config.Namespace == "" {
		config.Namespace = "gcpadc"
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "resolutions_total",
				Help:      "Total number of credential resolution attempts",
			},
			[]string{"mechanism", "outcome"},
		),

		ResolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Credential resolution duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"mechanism"},
		),

		CredentialFileErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "credential_file_errors_total",
				Help:      "Total number of credential file failures by reason",
			},
			[]string{"reason"},
		),

		MetadataProbeResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "metadata_probe_results_total",
				Help:      "Total number of compute metadata probe answers",
			},
			[]string{"result"},
		),

		MetadataProbeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "metadata_probe_duration_seconds",
				Help:      "Compute metadata probe duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"result"},
		),
	}
}

// RecordResolution records one resolution attempt and its outcome
func (m *Metrics) RecordResolution(mechanism, outcome string) {
	m.ResolutionsTotal.WithLabelValues(mechanism, outcome).Inc()
}

// RecordResolutionDuration records how long a resolution took
func (m *Metrics) RecordResolutionDuration(mechanism string, duration time.Duration) {
	m.ResolutionDuration.WithLabelValues(mechanism).Observe(duration.Seconds())
}

// RecordCredentialFileError records a credential file failure
func (m *Metrics) RecordCredentialFileError(reason string) {
	m.CredentialFileErrors.WithLabelValues(reason).Inc()
}

// RecordMetadataProbe records a probe answer and its duration
func (m *Metrics) RecordMetadataProbe(result string, duration time.Duration) {
	m.MetadataProbeResults.WithLabelValues(result).Inc()
	m.MetadataProbeDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration returns the duration since the timer was created
func (t *Timer) ObserveDuration() time.Duration {
	return time.Since(t.start)
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation service.
type Metrics struct {
	InterventionsApplied *prometheus.CounterVec // label: type
	SimulationResets     prometheus.Counter
	ApplyDuration        prometheus.Histogram

	CurrentAvgTemp prometheus.Gauge
	HotspotTemp    prometheus.Gauge

	ReliefRequests *prometheus.CounterVec // label: endpoint={elevation,hillshade,contours,elevation_at,bounds}

	InterventionsThrottled prometheus.Counter

	// Event stream metrics.
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
	PublishingEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		InterventionsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_sim",
			Name:      "interventions_applied_total",
			Help:      "Total interventions applied, by type.",
		}, []string{"type"}),
		SimulationResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_sim",
			Name:      "resets_total",
			Help:      "Total simulation resets.",
		}),
		ApplyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_sim",
			Name:      "apply_duration_seconds",
			Help:      "Duration of one intervention apply + snapshot cycle.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		CurrentAvgTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_sim",
			Name:      "current_avg_temp_celsius",
			Help:      "Mean of the current temperature field.",
		}),
		HotspotTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_sim",
			Name:      "hotspot_temp_celsius",
			Help:      "Temperature of the hottest grid cell.",
		}),
		ReliefRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_sim",
			Name:      "relief_requests_total",
			Help:      "Relief data requests, by endpoint.",
		}, []string{"endpoint"}),
		InterventionsThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_sim",
			Name:      "interventions_throttled_total",
			Help:      "Intervention requests rejected by the rate limiter.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_sim",
			Name:      "events_published_total",
			Help:      "Intervention events written to the sink topic.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_sim",
			Name:      "event_publish_errors_total",
			Help:      "Failed intervention event publishes.",
		}),
		PublishingEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_sim",
			Name:      "event_publishing_enabled",
			Help:      "1 when Kafka event publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.InterventionsApplied,
		m.SimulationResets,
		m.ApplyDuration,
		m.CurrentAvgTemp,
		m.HotspotTemp,
		m.ReliefRequests,
		m.InterventionsThrottled,
		m.EventsPublished,
		m.EventPublishErrors,
		m.PublishingEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		InterventionsApplied:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_sim", Name: "interventions_applied_total"}, []string{"type"}),
		SimulationResets:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_sim", Name: "resets_total"}),
		ApplyDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_sim", Name: "apply_duration_seconds"}),
		CurrentAvgTemp:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_sim", Name: "current_avg_temp_celsius"}),
		HotspotTemp:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_sim", Name: "hotspot_temp_celsius"}),
		ReliefRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_sim", Name: "relief_requests_total"}, []string{"endpoint"}),
		InterventionsThrottled: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_sim", Name: "interventions_throttled_total"}),
		EventsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_sim", Name: "events_published_total"}),
		EventPublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_sim", Name: "event_publish_errors_total"}),
		PublishingEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_sim", Name: "event_publishing_enabled"}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "nws"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast poller and its NWS client.
type Metrics struct {
	SummariesBuilt     prometheus.Counter
	SummariesPublished prometheus.Counter
	TransformErrors    prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Poll cycle metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
	ForecastUpdateTime      prometheus.Gauge
	NewAlerts               prometheus.Counter

	// NWS API metrics.
	NWSRequests    *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	NWSAPIDuration *prometheus.HistogramVec // labels: endpoint
	PointsCache    *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SummariesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "summaries_built_total",
			Help:      "Total hourly summaries built from detailed forecasts.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "summaries_published_total",
			Help:      "Total hourly summaries written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transform_errors_total",
			Help:      "Total hours that could not be summarized.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pipeline_running",
			Help:      "1 when the poller is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "batch_size",
			Help:      "Number of hourly summaries published per poll.",
			Buckets:   []float64{1, 6, 12, 24, 48, 72, 96, 120, 156},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete fetch-summarize-publish poll.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ForecastUpdateTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "forecast_update_time_seconds",
			Help:      "Unix time of the last detailed forecast update issued by NWS.",
		}),
		NewAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "new_alerts_total",
			Help:      "Alerts seen for the first time across the location's zones.",
		}),
		NWSRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "api_requests_total",
			Help:      "NWS API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		NWSAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "api_duration_seconds",
			Help:      "NWS API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		PointsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "points_cache_total",
			Help:      "Grid point cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.SummariesBuilt,
		m.SummariesPublished,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ForecastUpdateTime,
		m.NewAlerts,
		m.NWSRequests,
		m.NWSAPIDuration,
		m.PointsCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

// NewUnregisteredMetrics creates Metrics that are never exported, for
// one-shot tools that have no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		SummariesBuilt:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "summaries_built_total"}),
		SummariesPublished:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "summaries_published_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: Namespace, Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: Namespace, Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: Namespace, Name: "batch_processing_duration_seconds"}),
		ForecastUpdateTime:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: Namespace, Name: "forecast_update_time_seconds"}),
		NewAlerts:               prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "new_alerts_total"}),
		NWSRequests:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: "api_requests_total"}, []string{"endpoint", "outcome"}),
		NWSAPIDuration:          prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: Namespace, Name: "api_duration_seconds"}, []string{"endpoint"}),
		PointsCache:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: "points_cache_total"}, []string{"result"}),
	}
}

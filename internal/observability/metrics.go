package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smart_city"

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	// HTTP surface.
	HTTPRequests *prometheus.CounterVec   // labels: route, status
	HTTPDuration *prometheus.HistogramVec // labels: route

	// Predictions.
	Predictions   *prometheus.CounterVec // labels: module
	AlertsRaised  *prometheus.CounterVec // labels: type
	AlertsPublish *prometheus.CounterVec // labels: outcome={success,error}

	// Background alert delivery.
	AlertPipelineRunning prometheus.Gauge
	AlertQueueDepth      prometheus.Gauge
	AlertDeliveries      *prometheus.CounterVec // labels: outcome={delivered,retried,dropped}
	AlertBatchSize       prometheus.Histogram

	// External data gateway.
	ProviderRequests   *prometheus.CounterVec   // labels: provider, domain, outcome={success,error}
	ProviderDuration   *prometheus.HistogramVec // labels: provider
	ProviderCache      *prometheus.CounterVec   // labels: domain, result={hit,miss}
	SyntheticFallbacks *prometheus.CounterVec   // labels: domain

	// Geocoding.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method
	GeocodeEnabled     prometheus.Gauge

	// City metrics store.
	StoreWrites   *prometheus.CounterVec // labels: outcome={success,error}
	CitiesTracked prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Predictions,
		m.AlertsRaised,
		m.AlertsPublish,
		m.AlertPipelineRunning,
		m.AlertQueueDepth,
		m.AlertDeliveries,
		m.AlertBatchSize,
		m.ProviderRequests,
		m.ProviderDuration,
		m.ProviderCache,
		m.SyntheticFallbacks,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.StoreWrites,
		m.CitiesTracked,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served by module (accident, air_quality, activity, parking, city).",
		}, []string{"module"}),
		AlertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Threshold-breach alerts raised by type.",
		}, []string{"type"}),
		AlertsPublish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_publish_total",
			Help:      "Alert batches handed to the publisher by outcome.",
		}, []string{"outcome"}),
		AlertPipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_pipeline_running",
			Help:      "1 while the alert delivery loop is running.",
		}),
		AlertQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_queue_depth",
			Help:      "Alerts waiting for delivery.",
		}),
		AlertDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_deliveries_total",
			Help:      "Alerts by delivery outcome.",
		}, []string{"outcome"}),
		AlertBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alert_batch_size",
			Help:      "Number of alerts per delivery batch.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Live data provider requests by provider, domain and outcome.",
		}, []string{"provider", "domain", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Live data provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_cache_total",
			Help:      "Live reading cache lookups by domain and result.",
		}, []string{"domain", "result"}),
		SyntheticFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthetic_fallbacks_total",
			Help:      "Readings served from synthetic data by domain.",
		}, []string{"domain"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when live geocoding is enabled, 0 otherwise.",
		}),
		StoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "City metrics file rewrites by outcome.",
		}, []string{"outcome"}),
		CitiesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cities_tracked",
			Help:      "Number of cities held in the metrics store.",
		}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "suitability"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// suitability service.
type Metrics struct {
	// Forecast loading.
	LoaderRunning        prometheus.Gauge
	ForecastLoads        *prometheus.CounterVec // labels: outcome={success,error}
	ForecastLoadDuration prometheus.Histogram
	ForecastFetchErrors  *prometheus.CounterVec // labels: source
	RegionsLoaded        prometheus.Gauge

	// Scoring and selection.
	SelectionChanges  *prometheus.CounterVec // labels: field={day,preference}
	SelectionRejected *prometheus.CounterVec // labels: reason={invalid_index,unknown_preference}
	ScoreCache        *prometheus.CounterVec // labels: result={hit,miss}
	RegionsByTier     *prometheus.GaugeVec   // labels: tier
	SweepsPublished   *prometheus.CounterVec // labels: outcome={success,error}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LoaderRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loader_running",
			Help:      "1 when the forecast loader is active, 0 when shut down.",
		}),
		ForecastLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_loads_total",
			Help:      "Forecast load cycles by outcome.",
		}, []string{"outcome"}),
		ForecastLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_load_duration_seconds",
			Help:      "Duration of a complete region and forecast load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ForecastFetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_fetch_errors_total",
			Help:      "Per-region forecast fetch failures by source.",
		}, []string{"source"}),
		RegionsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "regions_loaded",
			Help:      "Number of regions in the current forecast snapshot.",
		}),
		SelectionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_changes_total",
			Help:      "Accepted selection changes by field.",
		}, []string{"field"}),
		SelectionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_rejected_total",
			Help:      "Rejected selection changes by reason.",
		}, []string{"reason"}),
		ScoreCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_cache_total",
			Help:      "Score memo lookups by result.",
		}, []string{"result"}),
		RegionsByTier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "regions_by_tier",
			Help:      "Regions per suitability tier in the most recent sweep.",
		}, []string{"tier"}),
		SweepsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_published_total",
			Help:      "Sweep broadcasts to the publisher by outcome.",
		}, []string{"outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when centroid geocoding is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.LoaderRunning,
		m.ForecastLoads,
		m.ForecastLoadDuration,
		m.ForecastFetchErrors,
		m.RegionsLoaded,
		m.SelectionChanges,
		m.SelectionRejected,
		m.ScoreCache,
		m.RegionsByTier,
		m.SweepsPublished,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}

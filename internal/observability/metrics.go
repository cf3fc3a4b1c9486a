package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zhvi_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset load metrics.
	RowsLoaded   prometheus.Gauge
	RowsDropped  *prometheus.GaugeVec // labels: reason={no_location,no_metro}
	LoadDuration prometheus.Histogram

	// View computation metrics.
	ViewsComputed     prometheus.Counter
	NoDataViews       *prometheus.CounterVec // labels: view={snapshot,series}
	AmbiguityWarnings prometheus.Counter
	ViewDuration      prometheus.Histogram
	SessionsActive    prometheus.Gauge

	// Snapshot event publishing metrics.
	EventsPublished  prometheus.Counter
	EventsDropped    prometheus.Counter
	PublishErrors    prometheus.Counter
	PublisherRunning prometheus.Gauge
	PublishBatchSize prometheus.Histogram

	// Static map metrics.
	StaticMapRequests    *prometheus.CounterVec // labels: outcome={success,error}
	StaticMapCache       *prometheus.CounterVec // labels: result={hit,miss}
	StaticMapAPIDuration prometheus.Histogram
	MapboxEnabled        prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.LoadDuration,
		m.ViewsComputed,
		m.NoDataViews,
		m.AmbiguityWarnings,
		m.ViewDuration,
		m.SessionsActive,
		m.EventsPublished,
		m.EventsDropped,
		m.PublishErrors,
		m.PublisherRunning,
		m.PublishBatchSize,
		m.StaticMapRequests,
		m.StaticMapCache,
		m.StaticMapAPIDuration,
		m.MapboxEnabled,
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
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_loaded",
			Help:      "Neighborhood rows in the normalized table.",
		}),
		RowsDropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_dropped",
			Help:      "Source rows dropped at load, by reason.",
		}, []string{"reason"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of reading and normalizing the source table.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ViewsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_computed_total",
			Help:      "Dashboard views computed from a selection.",
		}),
		NoDataViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_data_views_total",
			Help:      "Views whose widget was empty after filtering, by view.",
		}, []string{"view"}),
		AmbiguityWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ambiguity_warnings_total",
			Help:      "Neighborhood rows reported as ambiguous within a metro.",
		}),
		ViewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_duration_seconds",
			Help:      "Duration of one synchronous view computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Dashboard sessions currently held in memory.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Snapshot events written to the sink topic.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Snapshot events dropped because the publish queue was full.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed snapshot event batch writes.",
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      "1 when the event publisher is active, 0 when shut down.",
		}),
		PublishBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_size",
			Help:      "Number of events per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		StaticMapRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "static_map_requests_total",
			Help:      "Mapbox static image requests by outcome.",
		}, []string{"outcome"}),
		StaticMapCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "static_map_cache_total",
			Help:      "Static map cache lookups by result.",
		}, []string{"result"}),
		StaticMapAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "static_map_api_duration_seconds",
			Help:      "Mapbox static image API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		MapboxEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mapbox_enabled",
			Help:      "1 when static map rendering is enabled, 0 otherwise.",
		}),
	}
}

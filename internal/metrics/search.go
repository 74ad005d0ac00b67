package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "gallerydex"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"surface", "mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, corpus load included",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"surface", "mode"},
	)

	SearchMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Number of images with a positive score per ranked search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"surface"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_fallback_total",
			Help:      "Ranked searches that matched nothing and fell back to a shuffled listing",
		},
		[]string{"surface"},
	)

	CorpusFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corpus_fetch_total",
			Help:      "Corpus source fetches",
		},
		[]string{"source", "status"},
	)

	CorpusFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "corpus_fetch_duration_seconds",
			Help:      "Corpus source fetch duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	CorpusCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corpus_cache_total",
			Help:      "Corpus cache lookups by tier and result",
		},
		[]string{"tier", "result"}, // tier: "memory"/"snapshot"; result: "hit"/"miss"/"stale"
	)

	CorpusImages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_images",
			Help:      "Number of images in the current merged corpus",
		},
	)

	WidenerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widener_requests_total",
			Help:      "Total number of query widening requests",
		},
		[]string{"model", "status"},
	)

	WidenerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "widener_request_duration_seconds",
			Help:      "Query widening request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search, corpus and widener metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		SearchRequestsTotal,
		SearchDuration,
		SearchMatches,
		SearchFallbackTotal,
		CorpusFetchTotal,
		CorpusFetchDuration,
		CorpusCacheTotal,
		CorpusImages,
		WidenerRequestsTotal,
		WidenerRequestDuration,
	)
	searchMetricsRegistered = true
}

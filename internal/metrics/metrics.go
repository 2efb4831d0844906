// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline Prometheus metrics.
type Metrics struct {
	ItemsProcessed prometheus.Counter
	ItemsRejected  prometheus.Counter
	ItemsMerged    prometheus.Counter

	ClustersFormed      prometheus.Counter
	CoordinatedClusters prometheus.Counter

	CredibilityAdjustments prometheus.Counter

	RunDuration prometheus.Histogram
	BatchSize   prometheus.Histogram
}

// New registers and returns the pipeline metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in
// tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ItemsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsintel_items_processed_total",
			Help: "Raw items successfully enriched.",
		}),
		ItemsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsintel_items_rejected_total",
			Help: "Raw items rejected before enrichment (missing title or link).",
		}),
		ItemsMerged: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsintel_items_merged_total",
			Help: "Items merged into an existing article by canonical link.",
		}),
		ClustersFormed: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsintel_clusters_formed_total",
			Help: "Story clusters formed across all runs.",
		}),
		CoordinatedClusters: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsintel_coordinated_clusters_total",
			Help: "Clusters flagged as coordinated releases.",
		}),
		CredibilityAdjustments: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsintel_credibility_adjustments_total",
			Help: "Credibility score adjustments applied.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsintel_run_duration_seconds",
			Help:    "Wall time of one full pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsintel_batch_size",
			Help:    "Raw items per pipeline run.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

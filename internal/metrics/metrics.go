// Package metrics provides Prometheus instrumentation for the letterbuds
// service: comparison throughput, scrape latency, cache effectiveness,
// enrichment outcomes, and live WebSocket connection counts.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ComparisonsTotal counts comparison requests, labeled by outcome:
	// "ok" or "rejected".
	ComparisonsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "letterbuds_comparisons_total",
		Help: "Total number of comparison requests",
	}, []string{"outcome"})

	// ScrapeDuration records per-member watchlist scrape latency in seconds.
	ScrapeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "letterbuds_scrape_duration_seconds",
		Help:    "Watchlist scrape latency per member in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
	})

	// CacheLookups counts cache reads, labeled by store
	// ("watchlist", "profile", "enriched") and result ("hit", "miss").
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "letterbuds_cache_lookups_total",
		Help: "Session cache lookups by store and result",
	}, []string{"store", "result"})

	// EnrichmentsTotal counts enrichment lookups, labeled by result:
	// "applied", "miss", or "error".
	EnrichmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "letterbuds_enrichments_total",
		Help: "Total number of film enrichment lookups",
	}, []string{"result"})

	// WSClients tracks the current number of live WebSocket clients.
	WSClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "letterbuds_ws_clients",
		Help: "Current number of connected WebSocket clients",
	})
)

func init() {
	prometheus.MustRegister(
		ComparisonsTotal,
		ScrapeDuration,
		CacheLookups,
		EnrichmentsTotal,
		WSClients,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

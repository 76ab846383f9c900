// Package metrics provides Prometheus metrics for the list matcher.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listmatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listmatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Scrape pipeline metrics
	ScrapeRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listmatch_scrape_requests_total",
			Help: "Total number of list scrape requests",
		},
	)

	CardsScraped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listmatch_cards_scraped_total",
			Help: "Raw card observations extracted from scraped lists",
		},
	)

	CardsDeduped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listmatch_cards_deduped_total",
			Help: "Unique cards remaining after deduplication",
		},
	)

	// Resolution metrics
	CardResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listmatch_card_resolutions_total",
			Help: "Card resolution outcomes",
		},
		[]string{"result"}, // "matched", "no_group", "no_product", "error"
	)

	CardResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listmatch_card_resolution_duration_seconds",
			Help:    "Time taken to resolve a single card",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)

	ProductIndexBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listmatch_product_index_builds_total",
			Help: "Number of per-group product indexes built",
		},
	)

	// Catalog API metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listmatch_catalog_requests_total",
			Help: "Catalog lookups by endpoint and cache disposition",
		},
		[]string{"endpoint", "cache"}, // endpoint: "groups"/"products", cache: "hit"/"miss"/"error"
	)

	CatalogFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listmatch_catalog_fetch_duration_seconds",
			Help:    "Latency of catalog HTTP fetches (cache misses only)",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Scraper sidecar metrics
	ScraperRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listmatch_scraper_requests_total",
			Help: "Scraper sidecar requests by result",
		},
		[]string{"result"}, // "success", "failed"
	)
)

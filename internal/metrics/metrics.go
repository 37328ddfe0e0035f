package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawl pipeline.
type Metrics struct {
	Registry       *prometheus.Registry
	PagesFetched   prometheus.Counter
	FetchErrors    prometheus.Counter
	ItemsEnriched  prometheus.Counter
	EnrichFailures prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CrawlDuration  prometheus.Histogram
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pagesFetched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phoneapi_pages_fetched_total",
		Help: "Total listing and detail pages fetched from the catalog.",
	})
	fetchErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phoneapi_fetch_errors_total",
		Help: "Total page fetches that failed or returned a non-success status.",
	})
	itemsEnriched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phoneapi_items_enriched_total",
		Help: "Total phones successfully enriched from detail pages.",
	})
	enrichFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phoneapi_enrich_failures_total",
		Help: "Total detail enrichments dropped due to fetch or parse failures.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phoneapi_cache_hits_total",
		Help: "Total requests served from a fresh cache entry.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phoneapi_cache_misses_total",
		Help: "Total requests that triggered a crawl.",
	})
	crawlDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "phoneapi_crawl_duration_seconds",
		Help:    "End-to-end duration of crawl-and-enrich runs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	registry.MustRegister(pagesFetched, fetchErrors, itemsEnriched,
		enrichFailures, cacheHits, cacheMisses, crawlDuration)

	return &Metrics{
		Registry:       registry,
		PagesFetched:   pagesFetched,
		FetchErrors:    fetchErrors,
		ItemsEnriched:  itemsEnriched,
		EnrichFailures: enrichFailures,
		CacheHits:      cacheHits,
		CacheMisses:    cacheMisses,
		CrawlDuration:  crawlDuration,
	}
}

// IncPageFetched increments the fetched-pages counter.
func (m *Metrics) IncPageFetched() {
	if m == nil {
		return
	}
	m.PagesFetched.Inc()
}

// IncFetchError increments the fetch-errors counter.
func (m *Metrics) IncFetchError() {
	if m == nil {
		return
	}
	m.FetchErrors.Inc()
}

// AddItemsEnriched adds to the enriched-items counter.
func (m *Metrics) AddItemsEnriched(n int) {
	if m == nil {
		return
	}
	m.ItemsEnriched.Add(float64(n))
}

// AddEnrichFailures adds to the enrichment-failures counter.
func (m *Metrics) AddEnrichFailures(n int) {
	if m == nil {
		return
	}
	m.EnrichFailures.Add(float64(n))
}

// IncCacheHit increments the cache-hits counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncCacheMiss increments the cache-misses counter.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// ObserveCrawl records one crawl run's duration.
func (m *Metrics) ObserveCrawl(d time.Duration) {
	if m == nil {
		return
	}
	m.CrawlDuration.Observe(d.Seconds())
}

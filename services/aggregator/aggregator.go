// Package aggregator composes discovery, crawling, enrichment,
// deduplication and caching into one request-scoped pipeline.
package aggregator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"telspec/phoneapi/config"
	"telspec/phoneapi/helpers"
	"telspec/phoneapi/internal/batch"
	"telspec/phoneapi/internal/catalog"
	"telspec/phoneapi/internal/crawler"
	"telspec/phoneapi/internal/metrics"
	"telspec/phoneapi/logger"
	apperrors "telspec/phoneapi/pkg/errors"
	"telspec/phoneapi/services/cache"
	"telspec/phoneapi/services/publisher"
)

// publishKey is the field name under which phones land in the stream.
const publishKey = "telfonak"

// Aggregator owns the result-cache lifecycle and runs the full
// crawl-aggregate-cache pipeline on cache misses. Concurrent requests
// for the same cache key collapse into a single crawl.
type Aggregator struct {
	crawler    *crawler.Crawler
	enricher   *crawler.Enricher
	discoverer *crawler.Discoverer
	results    *cache.ResultStore
	pub        publisher.Publisher
	metrics    *metrics.Metrics
	brandDelay time.Duration
	limit      int
	batchDelay time.Duration
	group      singleflight.Group
}

// New wires an aggregator from its collaborators. pub may be nil, in
// which case nothing is published.
func New(cfg *config.Config, fetcher crawler.PageFetcher, results *cache.ResultStore, pub publisher.Publisher, m *metrics.Metrics) *Aggregator {
	return &Aggregator{
		crawler: &crawler.Crawler{
			Fetcher:     fetcher,
			BaseURL:     cfg.BaseURL,
			Limit:       cfg.ConcurrencyLimit,
			BatchDelay:  cfg.BatchDelay,
			PageCeiling: cfg.PageCeiling,
			Metrics:     m,
		},
		enricher: &crawler.Enricher{
			Fetcher: fetcher,
			Source:  "telfonak.com",
		},
		discoverer: &crawler.Discoverer{
			Fetcher: fetcher,
			BaseURL: cfg.BaseURL,
		},
		results:    results,
		pub:        pub,
		metrics:    m,
		brandDelay: cfg.BrandDelay,
		limit:      cfg.ConcurrencyLimit,
		batchDelay: cfg.BatchDelay,
	}
}

// Aggregate serves one query, from cache when a fresh entry exists and
// the query does not force a refresh, otherwise by crawling.
func (a *Aggregator) Aggregate(ctx context.Context, q catalog.Query) (*catalog.Result, error) {
	start := time.Now()
	key := q.CacheKey()

	if !q.Refresh {
		if items, ok := a.results.Get(key); ok {
			a.metrics.IncCacheHit()
			return &catalog.Result{
				Items:   items,
				Elapsed: time.Since(start),
				Cached:  true,
			}, nil
		}
	}
	a.metrics.IncCacheMiss()

	v, err, _ := a.group.Do(key, func() (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ForComponent("aggregator").Error().Interface("panic", r).Msg("Crawl panicked")
				err = apperrors.NewInternal("aggregator", "crawl failed", nil)
			}
		}()
		return a.crawl(ctx, q, key), nil
	})
	if err != nil {
		return nil, err
	}

	return &catalog.Result{
		Items:   v.([]catalog.Phone),
		Elapsed: time.Since(start),
		Cached:  false,
	}, nil
}

// crawl runs the full pipeline for one cache key and stores the outcome.
func (a *Aggregator) crawl(ctx context.Context, q catalog.Query, key string) []catalog.Phone {
	log := logger.ForComponent("aggregator").
		WithField("crawl_id", uuid.NewString()).
		WithField("key", key)

	start := time.Now()
	defer func() { a.metrics.ObserveCrawl(time.Since(start)) }()

	var terms []string
	if q.FullCatalog() {
		terms = a.discoverer.Discover(ctx)
		log.Info().Int("brands", len(terms)).Msg("Starting full catalog sweep")
	} else {
		terms = []string{q.Term}
		log.Info().Str("term", q.Term).Msg("Starting scoped crawl")
	}

	var aggregated []catalog.Candidate
	for i, term := range terms {
		links := a.crawler.CrawlSearch(ctx, term)
		log.Debug().Str("term", term).Int("links", len(links)).Msg("Collected brand links")
		aggregated = append(aggregated, links...)

		if i < len(terms)-1 {
			time.Sleep(a.brandDelay)
		}
	}

	// Collapse by link before enrichment so no detail page is fetched twice
	unique := helpers.DedupeBy(aggregated, catalog.Candidate.Key)
	log.Info().Int("raw", len(aggregated)).Int("unique", len(unique)).Msg("Collected candidate links")

	phones := batch.Run(ctx, unique, a.limit, a.batchDelay, a.enricher.Enrich)
	a.metrics.AddItemsEnriched(len(phones))
	a.metrics.AddEnrichFailures(len(unique) - len(phones))

	// Re-published pages resolve to the same device; collapse again on the
	// richer key now that models are known
	phones = helpers.DedupeBy(phones, catalog.Phone.Key)

	if err := a.results.Put(key, phones); err != nil {
		log.Warn().Err(err).Msg("Failed to store crawl result in cache")
	}

	a.publish(log, phones)

	log.Info().
		Int("phones", len(phones)).
		Dur("elapsed", time.Since(start)).
		Msg("Crawl finished")

	return phones
}

// publish fans the crawl's phones out to the configured publisher, if any.
func (a *Aggregator) publish(log *logger.Logger, phones []catalog.Phone) {
	if a.pub == nil {
		return
	}

	for _, phone := range phones {
		data, err := json.Marshal(phone)
		if err != nil {
			log.Warn().Err(err).Str("title", phone.Title).Msg("Failed to encode phone for publishing")
			continue
		}
		if err := a.pub.Publish(publishKey, data); err != nil {
			log.Warn().Err(err).Str("title", phone.Title).Msg("Failed to publish phone")
		}
	}

	if err := a.pub.TrimStreams(); err != nil {
		log.Warn().Err(err).Msg("Failed to trim publisher streams")
	}
}

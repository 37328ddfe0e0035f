// Package crawler collects phone candidates from the upstream catalog's
// paginated listing pages and enriches them from per-item detail pages.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"telspec/phoneapi/internal/batch"
	"telspec/phoneapi/internal/catalog"
	"telspec/phoneapi/internal/metrics"
	"telspec/phoneapi/logger"
)

// PageFetcher is the outbound network capability the crawler depends on.
// Any non-success status or transport error comes back as a plain error.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (io.Reader, error)
}

// Crawler walks the listing pages for one query or category until a
// termination condition is met and emits deduplicated candidates.
type Crawler struct {
	Fetcher     PageFetcher
	BaseURL     string
	Limit       int
	BatchDelay  time.Duration
	PageCeiling int
	Metrics     *metrics.Metrics
}

// CrawlSearch collects every candidate for one search term.
func (c *Crawler) CrawlSearch(ctx context.Context, term string) []catalog.Candidate {
	first := strings.TrimSuffix(c.BaseURL, "/") + "/?s=" + url.QueryEscape(term)
	return c.CrawlListing(ctx, first)
}

// CrawlListing collects every candidate reachable from the given first
// listing page URL (a search URL or a category page URL).
//
// When the first page carries numeric pagination the remaining pages are
// fetched in bounded batches. Without pagination metadata the page count
// is unknown and pages are walked sequentially until two consecutive
// pages yield no new candidate links. Either way the page ceiling is an
// absolute bound, so the crawl terminates even on a pathological mirror
// loop. A single failed page contributes zero candidates and never
// aborts the rest of the crawl.
func (c *Crawler) CrawlListing(ctx context.Context, firstURL string) []catalog.Candidate {
	log := logger.ForComponent("crawler")

	firstItems, doc, err := c.fetchPage(ctx, firstURL)
	if err != nil {
		log.Warn().Err(err).Str("url", firstURL).Msg("First listing page unavailable")
		return nil
	}

	seen := make(map[string]struct{})
	var out []catalog.Candidate
	appendNew := func(items []catalog.Candidate) int {
		added := 0
		for _, item := range items {
			key := item.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
			added++
		}
		return added
	}
	appendNew(firstItems)

	maxPage, known := ParseMaxPage(doc)
	if known {
		if maxPage > c.PageCeiling {
			maxPage = c.PageCeiling
		}
		if maxPage <= 1 {
			return out
		}

		urls := make([]string, 0, maxPage-1)
		for page := 2; page <= maxPage; page++ {
			urls = append(urls, buildPageURL(firstURL, page))
		}
		pages := batch.Run(ctx, urls, c.Limit, c.BatchDelay, func(ctx context.Context, pageURL string) ([]catalog.Candidate, error) {
			items, _, err := c.fetchPage(ctx, pageURL)
			return items, err
		})
		for _, items := range pages {
			appendNew(items)
		}
		return out
	}

	// Page count unknown: walk forward until two consecutive pages add
	// nothing new. Failed pages count as empty.
	emptyStreak := 0
	for page := 2; page <= c.PageCeiling && emptyStreak < 2; page++ {
		items, _, err := c.fetchPage(ctx, buildPageURL(firstURL, page))
		if err != nil || appendNew(items) == 0 {
			emptyStreak++
		} else {
			emptyStreak = 0
		}
	}

	return out
}

// fetchPage fetches and parses a single listing page.
func (c *Crawler) fetchPage(ctx context.Context, pageURL string) ([]catalog.Candidate, *goquery.Document, error) {
	body, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.Metrics.IncFetchError()
		return nil, nil, err
	}
	c.Metrics.IncPageFetched()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	base, _ := url.Parse(pageURL)
	return ParseListing(doc, base), doc, nil
}

// buildPageURL derives the URL of page n from the first page's URL,
// following the upstream path convention: query-carrying URLs get
// /page/n/ inserted before the query string, plain category URLs get it
// appended to the path.
func buildPageURL(firstURL string, n int) string {
	u, err := url.Parse(firstURL)
	if err != nil {
		return strings.TrimSuffix(firstURL, "/") + fmt.Sprintf("/page/%d/", n)
	}

	if u.RawQuery != "" {
		return fmt.Sprintf("%s://%s/page/%d/?%s", u.Scheme, u.Host, n, u.RawQuery)
	}

	base := firstURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%spage/%d/", base, n)
}

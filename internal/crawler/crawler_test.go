package crawler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"telspec/phoneapi/helpers"
)

// listingPage builds a listing page with the given detail links and,
// when maxPage > 0, numeric pagination up to maxPage.
func listingPage(links []string, maxPage int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, link := range links {
		fmt.Fprintf(&b, `<div class="post"><a class="image-link" href=%q title="Phone %s"></a></div>`, link, link)
	}
	if maxPage > 0 {
		b.WriteString(`<div class="nav-links">`)
		for i := 1; i <= maxPage; i++ {
			fmt.Fprintf(&b, `<a class="page-numbers" href="#">%d</a>`, i)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func pageLinks(page, n int) []string {
	links := make([]string, 0, n)
	for i := 0; i < n; i++ {
		links = append(links, fmt.Sprintf("https://telfonak.com/phone-%d-%d/", page, i))
	}
	return links
}

func newTestCrawler(f PageFetcher, ceiling int) *Crawler {
	return &Crawler{
		Fetcher:     f,
		BaseURL:     "https://telfonak.com",
		Limit:       3,
		BatchDelay:  time.Millisecond,
		PageCeiling: ceiling,
	}
}

func TestCrawlSearchKnownPageCount(t *testing.T) {
	fetcher := helpers.NewFetcher(time.Second)
	httpmock.ActivateNonDefault(fetcher.Client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://telfonak.com/?s=samsung",
		httpmock.NewStringResponder(200, listingPage(pageLinks(1, 3), 3)))
	httpmock.RegisterResponder("GET", "https://telfonak.com/page/2/?s=samsung",
		httpmock.NewStringResponder(200, listingPage(pageLinks(2, 3), 3)))
	httpmock.RegisterResponder("GET", "https://telfonak.com/page/3/?s=samsung",
		httpmock.NewStringResponder(200, listingPage(pageLinks(3, 3), 3)))

	c := newTestCrawler(fetcher, 1000)
	candidates := c.CrawlSearch(context.Background(), "samsung")

	assert.Len(t, candidates, 9)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestCrawlSearchPageFailureIsolated(t *testing.T) {
	fetcher := helpers.NewFetcher(time.Second)
	httpmock.ActivateNonDefault(fetcher.Client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://telfonak.com/?s=apple",
		httpmock.NewStringResponder(200, listingPage(pageLinks(1, 2), 3)))
	httpmock.RegisterResponder("GET", "https://telfonak.com/page/2/?s=apple",
		httpmock.NewStringResponder(500, "boom"))
	httpmock.RegisterResponder("GET", "https://telfonak.com/page/3/?s=apple",
		httpmock.NewStringResponder(200, listingPage(pageLinks(3, 2), 3)))

	c := newTestCrawler(fetcher, 1000)
	candidates := c.CrawlSearch(context.Background(), "apple")

	// The failed page contributes zero candidates without aborting the rest
	assert.Len(t, candidates, 4)
}

func TestCrawlSearchFirstPageFailure(t *testing.T) {
	fetcher := helpers.NewFetcher(time.Second)
	httpmock.ActivateNonDefault(fetcher.Client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://telfonak.com/?s=nokia",
		httpmock.NewStringResponder(404, "not found"))

	c := newTestCrawler(fetcher, 1000)
	candidates := c.CrawlSearch(context.Background(), "nokia")

	// No retry, no error: an unavailable first page means zero items
	assert.Empty(t, candidates)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestCrawlSearchTwoConsecutiveEmptyPagesStop(t *testing.T) {
	// No pagination metadata: [5 items, 0 new, 0 new, 5 items] must stop
	// after the third page and never fetch the fourth
	fetcher := &stubFetcher{pages: map[string]string{
		"https://telfonak.com/?s=oppo":        listingPage(pageLinks(1, 5), 0),
		"https://telfonak.com/page/2/?s=oppo": listingPage(nil, 0),
		"https://telfonak.com/page/3/?s=oppo": listingPage(nil, 0),
		"https://telfonak.com/page/4/?s=oppo": listingPage(pageLinks(4, 5), 0),
	}}

	c := newTestCrawler(fetcher, 1000)
	candidates := c.CrawlSearch(context.Background(), "oppo")

	assert.Len(t, candidates, 5)
	assert.Equal(t, 3, fetcher.callCount())
	assert.NotContains(t, fetcher.calls, "https://telfonak.com/page/4/?s=oppo")
}

func TestCrawlSearchDuplicatePagesCountAsEmpty(t *testing.T) {
	// Pages repeating already-seen links yield zero new candidates and
	// trip the stop heuristic
	repeat := listingPage(pageLinks(1, 4), 0)
	fetcher := &stubFetcher{pages: map[string]string{
		"https://telfonak.com/?s=vivo":        repeat,
		"https://telfonak.com/page/2/?s=vivo": repeat,
		"https://telfonak.com/page/3/?s=vivo": repeat,
	}}

	c := newTestCrawler(fetcher, 1000)
	candidates := c.CrawlSearch(context.Background(), "vivo")

	assert.Len(t, candidates, 4)
	assert.Equal(t, 3, fetcher.callCount())
}

func TestCrawlSearchHardCeiling(t *testing.T) {
	// A source that always returns fresh links must still terminate,
	// bounded by the page ceiling
	fetcher := &alwaysNewFetcher{perPage: 2}

	c := newTestCrawler(fetcher, 6)
	candidates := c.CrawlSearch(context.Background(), "infinix")

	assert.Len(t, candidates, 6*2)
	assert.Equal(t, 6, fetcher.calls)
}

func TestCrawlListingCategoryURL(t *testing.T) {
	// Category URLs carry no query string; page URLs append to the path
	fetcher := &stubFetcher{pages: map[string]string{
		"https://telfonak.com/brand/samsung/":        listingPage(pageLinks(1, 2), 2),
		"https://telfonak.com/brand/samsung/page/2/": listingPage(pageLinks(2, 2), 2),
	}}

	c := newTestCrawler(fetcher, 1000)
	candidates := c.CrawlListing(context.Background(), "https://telfonak.com/brand/samsung/")

	assert.Len(t, candidates, 4)
}

func TestBuildPageURL(t *testing.T) {
	assert.Equal(t,
		"https://telfonak.com/page/2/?s=samsung",
		buildPageURL("https://telfonak.com/?s=samsung", 2))
	assert.Equal(t,
		"https://telfonak.com/brand/apple/page/3/",
		buildPageURL("https://telfonak.com/brand/apple/", 3))
	assert.Equal(t,
		"https://telfonak.com/brand/apple/page/3/",
		buildPageURL("https://telfonak.com/brand/apple", 3))
}

// alwaysNewFetcher fabricates a listing page with unseen links for every
// requested URL.
type alwaysNewFetcher struct {
	perPage int
	calls   int
}

func (f *alwaysNewFetcher) Fetch(_ context.Context, url string) (io.Reader, error) {
	f.calls++
	links := make([]string, 0, f.perPage)
	for i := 0; i < f.perPage; i++ {
		links = append(links, fmt.Sprintf("https://telfonak.com/phone-%d-%d/", f.calls, i))
	}
	return strings.NewReader(listingPage(links, 0)), nil
}

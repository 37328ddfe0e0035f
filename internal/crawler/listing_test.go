package crawler

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseListing(t *testing.T) {
	html := `<html><body>
		<div class="post">
			<a class="image-link" href="https://telfonak.com/galaxy-s23/" title="Samsung Galaxy S23"></a>
			<span class="img" data-bgsrc="https://telfonak.com/img/s23.jpg"></span>
		</div>
		<article>
			<a href="/iphone-15/">iPhone 15</a>
			<img src="/img/ip15.jpg" />
		</article>
		<div class="media">
			<p>no link, no title: skipped</p>
		</div>
	</body></html>`

	base, _ := url.Parse("https://telfonak.com/?s=phones")
	candidates := ParseListing(mustDoc(t, html), base)

	assert.Len(t, candidates, 2)

	// Title attribute and lazy-load image attribute take priority
	assert.Equal(t, "Samsung Galaxy S23", candidates[0].Title)
	assert.Equal(t, "https://telfonak.com/galaxy-s23/", candidates[0].Link)
	assert.Equal(t, "https://telfonak.com/img/s23.jpg", candidates[0].Image)

	// Anchor text and direct img src are the fallbacks; relative links
	// resolve against the page URL
	assert.Equal(t, "iPhone 15", candidates[1].Title)
	assert.Equal(t, "https://telfonak.com/iphone-15/", candidates[1].Link)
	assert.Equal(t, "/img/ip15.jpg", candidates[1].Image)
}

func TestParseMaxPage(t *testing.T) {
	html := `<html><body>
		<div class="nav-links">
			<a class="page-numbers" href="#">1</a>
			<a class="page-numbers" href="#">2</a>
			<a class="page-numbers" href="#">7</a>
			<a class="page-numbers next" href="#">التالي</a>
		</div>
	</body></html>`

	maxPage, ok := ParseMaxPage(mustDoc(t, html))
	assert.True(t, ok)
	assert.Equal(t, 7, maxPage)
}

func TestParseMaxPageAbsent(t *testing.T) {
	_, ok := ParseMaxPage(mustDoc(t, `<html><body><div class="post"></div></body></html>`))
	assert.False(t, ok)

	// Non-numeric pagination tokens alone do not establish a page count
	_, ok = ParseMaxPage(mustDoc(t, `<html><body><a class="page-numbers">التالي</a></body></html>`))
	assert.False(t, ok)
}

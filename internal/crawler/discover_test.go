package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const homeHTML = `<html><body>
	<nav>
		<a href="/brand/samsung/">Samsung</a>
		<a href="/brand/samsung/">سامسونج Samsung</a>
		<a href="/category/phones/">هواتف</a>
		<a href="https://telfonak.com/tag/apple/">Apple</a>
		<a href="https://other-site.com/brand/xiaomi/">Xiaomi elsewhere</a>
		<a href="/about-us/">About this very fine website and its many authors over the years</a>
		<a href="/brand/oppo/"></a>
	</nav>
</body></html>`

func TestDiscover(t *testing.T) {
	d := &Discoverer{
		Fetcher: &stubFetcher{pages: map[string]string{"https://telfonak.com": homeHTML}},
		BaseURL: "https://telfonak.com",
	}

	brands := d.Discover(context.Background())

	// Internal brand/category/tag anchors and short texts are accepted;
	// the external host and the long anchor text are not. The anchor
	// without text falls back to its last path segment.
	assert.Equal(t, []string{"Samsung", "سامسونج Samsung", "هواتف", "Apple", "oppo"}, brands)
}

func TestDiscoverDedupesByText(t *testing.T) {
	html := `<html><body>
		<a href="/brand/samsung/">Samsung</a>
		<a href="/tag/samsung/">samsung</a>
	</body></html>`
	d := &Discoverer{
		Fetcher: &stubFetcher{pages: map[string]string{"https://telfonak.com": html}},
		BaseURL: "https://telfonak.com",
	}

	assert.Equal(t, []string{"Samsung"}, d.Discover(context.Background()))
}

func TestDiscoverFallbackOnFetchError(t *testing.T) {
	d := &Discoverer{
		Fetcher: &stubFetcher{pages: map[string]string{}},
		BaseURL: "https://telfonak.com",
	}

	// Discovery never fails; an unavailable home page means the
	// fallback list
	assert.Equal(t, FallbackBrands, d.Discover(context.Background()))
}

func TestDiscoverFallbackOnEmptyPage(t *testing.T) {
	d := &Discoverer{
		Fetcher: &stubFetcher{pages: map[string]string{
			"https://telfonak.com": `<html><body><p>no anchors at all</p></body></html>`,
		}},
		BaseURL: "https://telfonak.com",
	}

	assert.Equal(t, FallbackBrands, d.Discover(context.Background()))
}

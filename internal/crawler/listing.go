package crawler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"telspec/phoneapi/internal/catalog"
)

// Listing page selectors. These mirror the upstream WordPress theme and
// are best-effort: the site owes us no structural stability.
const (
	listingContainers  = ".media, .post, article"
	paginationSelector = ".page-numbers, .nav-links a.page-numbers"
)

// ParseListing extracts one page's worth of candidates from a listing
// document. A container missing either link or title is skipped. Relative
// links are resolved against base when it is non-nil.
func ParseListing(doc *goquery.Document, base *url.URL) []catalog.Candidate {
	var candidates []catalog.Candidate

	doc.Find(listingContainers).Each(func(_ int, s *goquery.Selection) {
		link, _ := s.Find("a.image-link").Attr("href")
		if link == "" {
			link, _ = s.Find("a").Attr("href")
		}

		title, _ := s.Find("a.image-link").Attr("title")
		if title == "" {
			title = s.Find("a").First().Text()
		}

		// Lazy-load attribute first, direct image source second
		img, _ := s.Find("span.img").Attr("data-bgsrc")
		if img == "" {
			img, _ = s.Find("img").Attr("src")
		}

		link = strings.TrimSpace(link)
		title = strings.TrimSpace(title)
		if link == "" || title == "" {
			return
		}
		if base != nil {
			if ref, err := url.Parse(link); err == nil {
				link = base.ResolveReference(ref).String()
			}
		}

		candidates = append(candidates, catalog.Candidate{
			Title: title,
			Link:  link,
			Image: strings.TrimSpace(img),
		})
	})

	return candidates
}

// ParseMaxPage returns the maximum page-number token among the page's
// pagination indicators. The second return value is false when the page
// carries no numeric pagination at all, in which case the total page
// count is unknown and the crawler falls back to its stop heuristic.
func ParseMaxPage(doc *goquery.Document) (int, bool) {
	maxPage := 0
	found := false

	doc.Find(paginationSelector).Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err != nil {
			return
		}
		found = true
		if n > maxPage {
			maxPage = n
		}
	})

	return maxPage, found
}

package crawler

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"telspec/phoneapi/helpers"
	"telspec/phoneapi/logger"
)

// FallbackBrands is used when the home page yields no brand candidates.
var FallbackBrands = []string{
	"samsung", "apple", "xiaomi", "oppo", "huawei", "realme", "infinix",
	"vivo", "honor", "tecno", "nokia", "oneplus", "google", "lenovo", "sony",
}

// Link path substrings that mark category/tag/brand pages.
var brandLinkPatterns = []string{"/brand", "/brands", "/category", "/tag"}

// Brand names are short; longer anchor texts are navigation or articles.
const maxBrandTextLen = 30

// Discoverer extracts brand query terms from the catalog's home page.
type Discoverer struct {
	Fetcher PageFetcher
	BaseURL string
}

// Discover scans the home page's anchors for brand candidates and
// returns their labels, deduplicated by normalized text. It never fails:
// any fetch or parse problem falls back to FallbackBrands.
func (d *Discoverer) Discover(ctx context.Context) []string {
	log := logger.ForComponent("discoverer")

	base, err := url.Parse(d.BaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Bad base URL, using fallback brand list")
		return FallbackBrands
	}

	body, err := d.Fetcher.Fetch(ctx, d.BaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Home page unavailable, using fallback brand list")
		return FallbackBrands
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		log.Warn().Err(err).Msg("Home page unparsable, using fallback brand list")
		return FallbackBrands
	}

	var brands []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		text := strings.TrimSpace(s.Text())
		if href == "" {
			return
		}

		// Internal links only
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Hostname() != base.Hostname() {
			return
		}

		low := strings.ToLower(href)
		patternHit := false
		for _, p := range brandLinkPatterns {
			if strings.Contains(low, p) {
				patternHit = true
				break
			}
		}
		textLen := utf8.RuneCountInString(text)
		if !patternHit && (textLen <= 1 || textLen >= maxBrandTextLen) {
			return
		}

		label := text
		if label == "" {
			parts := strings.Split(strings.Trim(resolved.Path, "/"), "/")
			label = parts[len(parts)-1]
		}
		if label = strings.TrimSpace(label); label != "" {
			brands = append(brands, label)
		}
	})

	brands = helpers.DedupeBy(brands, func(b string) string {
		return strings.ToLower(b)
	})

	if len(brands) == 0 {
		log.Info().Msg("No brand candidates on home page, using fallback brand list")
		return FallbackBrands
	}

	log.Debug().Int("count", len(brands)).Msg("Discovered brands from home page")
	return brands
}

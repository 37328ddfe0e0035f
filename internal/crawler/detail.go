package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"telspec/phoneapi/internal/catalog"
)

// Detail page selectors. Attribute rows are keyed by Arabic labels; the
// model row has several label variants tried in priority order.
const priceRowSelector = ".bs-shortcode-list li, .telfon-price tr"

var modelRowSelectors = []string{
	`tr:contains('الموديل / الطراز') td.aps-attr-value span`,
	`tr:contains('الإصدار') td.aps-attr-value`,
	`tr:contains('الموديل') td.aps-attr-value`,
}

var chipsetRowSelectors = []string{
	`tr:contains('المعالج') td.aps-attr-value span`,
	`tr:contains('المعالج') td.aps-attr-value`,
}

// Enricher turns listing candidates into full phone records by fetching
// and parsing their detail pages.
type Enricher struct {
	Fetcher PageFetcher
	Source  string
}

// Enrich fetches the candidate's detail page and extracts chipset, model
// identifiers and regional prices. A failed fetch or parse is an error;
// the batch layer drops the item without failing the surrounding run.
func (e *Enricher) Enrich(ctx context.Context, cand catalog.Candidate) (catalog.Phone, error) {
	var phone catalog.Phone

	if strings.TrimSpace(cand.Link) == "" {
		return phone, fmt.Errorf("candidate %q has no detail link", cand.Title)
	}

	body, err := e.Fetcher.Fetch(ctx, cand.Link)
	if err != nil {
		return phone, fmt.Errorf("detail fetch %s: %w", cand.Link, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return phone, fmt.Errorf("detail parse %s: %w", cand.Link, err)
	}

	models := parseModels(doc)

	return catalog.Phone{
		Title:   cand.Title,
		Link:    cand.Link,
		Image:   cand.Image,
		Chipset: ShortChipset(firstText(doc, chipsetRowSelectors)),
		Model:   strings.Join(models, ", "),
		Models:  models,
		Prices:  parsePrices(doc),
		Source:  e.Source,
	}, nil
}

// parsePrices scans all price rows, pairing a region name (strong text or
// first cell) with a price (span text or last cell). Rows missing either
// side are dropped.
func parsePrices(doc *goquery.Document) []catalog.RegionalPrice {
	var prices []catalog.RegionalPrice

	doc.Find(priceRowSelector).Each(func(_ int, s *goquery.Selection) {
		country := strings.TrimSpace(s.Find("strong").First().Text())
		if country == "" {
			country = strings.TrimSpace(s.Find("td").First().Text())
		}
		price := strings.TrimSpace(s.Find("span").First().Text())
		if price == "" {
			price = strings.TrimSpace(s.Find("td").Last().Text())
		}
		if country != "" && price != "" {
			prices = append(prices, catalog.RegionalPrice{Country: country, Price: price})
		}
	})

	return prices
}

// parseModels splits the model/variant row on commas into trimmed tokens.
func parseModels(doc *goquery.Document) []string {
	row := firstText(doc, modelRowSelectors)
	if row == "" {
		return nil
	}

	var models []string
	for _, part := range strings.Split(row, ",") {
		if part = strings.TrimSpace(part); part != "" {
			models = append(models, part)
		}
	}
	return models
}

// firstText returns the first non-empty trimmed text among the selectors.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

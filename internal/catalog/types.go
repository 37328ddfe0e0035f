package catalog

import (
	"net/url"
	"strings"
	"time"
)

// Candidate is a lightly parsed listing entry, prior to detail enrichment.
// It only lives for the duration of one crawl.
type Candidate struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"img,omitempty"`
}

// Key returns the identity key used to collapse candidates before
// enrichment: the normalized detail link.
func (c Candidate) Key() string {
	return NormalizeLink(c.Link)
}

// RegionalPrice is one row of a detail page's price table.
type RegionalPrice struct {
	Country string `json:"country"`
	Price   string `json:"price"`
}

// Phone is a fully extracted product record.
type Phone struct {
	Title   string          `json:"title"`
	Link    string          `json:"link"`
	Image   string          `json:"img"`
	Chipset string          `json:"chipset"`
	Model   string          `json:"model"`
	Models  []string        `json:"modelArray"`
	Prices  []RegionalPrice `json:"prices"`
	Source  string          `json:"source"`
}

// Key returns the identity key used to collapse phones after enrichment.
// Two listing links can resolve to the same logical device (re-published
// pages), so the key is built from title and model rather than the link.
func (p Phone) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Title)) + "|" + strings.ToLower(p.Model)
}

// FullCatalogKey is the cache key sentinel for a full-catalog sweep.
const FullCatalogKey = "__ALL_BRANDS__"

// Query describes one aggregation request. An empty Term means a
// full-catalog sweep.
type Query struct {
	Term    string
	Refresh bool
}

// CacheKey derives the result-cache key for the query.
func (q Query) CacheKey() string {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term == "" {
		return FullCatalogKey
	}
	return term
}

// FullCatalog reports whether the query asks for every brand.
func (q Query) FullCatalog() bool {
	return strings.TrimSpace(q.Term) == ""
}

// Result is the outcome of one aggregation.
type Result struct {
	Items   []Phone
	Elapsed time.Duration
	Cached  bool
}

// NormalizeLink canonicalizes a detail link for identity comparison:
// scheme and host are lowercased, the fragment is dropped and a trailing
// slash is trimmed. Unparsable links fall back to the trimmed raw string.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(link, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

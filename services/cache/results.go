package cache

import (
	"encoding/json"
	"time"

	"telspec/phoneapi/internal/catalog"
)

// resultEnvelope is the stored form of one result-cache entry.
type resultEnvelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Items    []catalog.Phone `json:"items"`
}

// ResultStore holds crawl results under their query keys for one TTL.
// Entries are overwritten on refresh, never merged. Freshness is checked
// against the stored timestamp even when the backend has its own expiry,
// so backends that only evict lazily still behave correctly.
type ResultStore struct {
	svc CacheService
	ttl time.Duration
	now func() time.Time
}

// NewResultStore wraps a cache backend with result encoding and TTL checks.
func NewResultStore(svc CacheService, ttl time.Duration) *ResultStore {
	return &ResultStore{
		svc: svc,
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the items stored under key if the entry exists and is still
// fresh. A corrupt or stale entry is reported as a miss.
func (s *ResultStore) Get(key string) ([]catalog.Phone, bool) {
	data, err := s.svc.Get(key)
	if err != nil {
		return nil, false
	}

	var envelope resultEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false
	}
	if s.now().Sub(envelope.StoredAt) >= s.ttl {
		return nil, false
	}
	return envelope.Items, true
}

// Put stores items under key, replacing any previous entry.
func (s *ResultStore) Put(key string, items []catalog.Phone) error {
	data, err := json.Marshal(resultEnvelope{
		StoredAt: s.now(),
		Items:    items,
	})
	if err != nil {
		return err
	}
	return s.svc.Set(key, data, s.ttl)
}

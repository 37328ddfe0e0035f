package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, ":8080", config.ListenAddr)
	assert.Equal(t, "https://telfonak.com", config.BaseURL)
	assert.Equal(t, 40, config.ConcurrencyLimit)
	assert.Equal(t, 80*time.Millisecond, config.BatchDelay)
	assert.Equal(t, 120*time.Millisecond, config.BrandDelay)
	assert.Equal(t, 1000, config.PageCeiling)
	assert.Equal(t, 10*time.Second, config.FetchTimeout)
	assert.Equal(t, time.Hour, config.CacheTTL)
	assert.Equal(t, CacheBackendMemory, config.CacheBackend)
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, time.Duration(0), config.WarmInterval)

	// Test with environment variables
	os.Setenv("CATALOG_BASE_URL", "https://example.com")
	os.Setenv("CONCURRENCY_LIMIT", "10")
	os.Setenv("CACHE_TTL_MINUTES", "5")
	os.Setenv("CACHE_BACKEND", "memcache")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("WARM_INTERVAL_MINUTES", "30")

	config = LoadConfig()
	assert.Equal(t, "https://example.com", config.BaseURL)
	assert.Equal(t, 10, config.ConcurrencyLimit)
	assert.Equal(t, 5*time.Minute, config.CacheTTL)
	assert.Equal(t, CacheBackendMemcache, config.CacheBackend)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 30*time.Minute, config.WarmInterval)

	// Clean up
	os.Unsetenv("CATALOG_BASE_URL")
	os.Unsetenv("CONCURRENCY_LIMIT")
	os.Unsetenv("CACHE_TTL_MINUTES")
	os.Unsetenv("CACHE_BACKEND")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("WARM_INTERVAL_MINUTES")
}

func TestValidate(t *testing.T) {
	valid := LoadConfig()
	assert.NoError(t, valid.Validate())

	badURL := LoadConfig()
	badURL.BaseURL = "not a url"
	assert.Error(t, badURL.Validate())

	badConcurrency := LoadConfig()
	badConcurrency.ConcurrencyLimit = 0
	assert.Error(t, badConcurrency.Validate())

	badCeiling := LoadConfig()
	badCeiling.PageCeiling = 0
	assert.Error(t, badCeiling.Validate())

	badBackend := LoadConfig()
	badBackend.CacheBackend = "postgres"
	assert.Error(t, badBackend.Validate())

	noMemcacheAddr := LoadConfig()
	noMemcacheAddr.CacheBackend = CacheBackendMemcache
	noMemcacheAddr.MemcacheAddr = ""
	assert.Error(t, noMemcacheAddr.Validate())
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Cache backends selectable via CACHE_BACKEND
const (
	CacheBackendMemory   = "memory"
	CacheBackendMemcache = "memcache"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Upstream catalog site
	BaseURL string

	// Crawler tuning
	ConcurrencyLimit int
	BatchDelay       time.Duration
	BrandDelay       time.Duration
	PageCeiling      int
	FetchTimeout     time.Duration

	// Result cache
	CacheTTL     time.Duration
	CacheBackend string
	MemcacheAddr string

	// Optional Redis publisher
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Optional background cache warmer (0 disables it)
	WarmInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	concurrency, _ := strconv.Atoi(getEnv("CONCURRENCY_LIMIT", "40"))
	batchDelayMs, _ := strconv.Atoi(getEnv("BATCH_DELAY_MS", "80"))
	brandDelayMs, _ := strconv.Atoi(getEnv("BRAND_DELAY_MS", "120"))
	pageCeiling, _ := strconv.Atoi(getEnv("PAGE_CEILING", "1000"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "60"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	warmInterval, _ := strconv.Atoi(getEnv("WARM_INTERVAL_MINUTES", "0"))

	return &Config{
		ListenAddr:           getEnv("LISTEN_ADDR", ":8080"),
		BaseURL:              getEnv("CATALOG_BASE_URL", "https://telfonak.com"),
		ConcurrencyLimit:     concurrency,
		BatchDelay:           time.Duration(batchDelayMs) * time.Millisecond,
		BrandDelay:           time.Duration(brandDelayMs) * time.Millisecond,
		PageCeiling:          pageCeiling,
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		CacheTTL:             time.Duration(cacheTTL) * time.Minute,
		CacheBackend:         getEnv("CACHE_BACKEND", CacheBackendMemory),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "phones"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLen,
		WarmInterval:         time.Duration(warmInterval) * time.Minute,
		Environment:          getEnv("PHONEAPI_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("CATALOG_BASE_URL must be a valid absolute URL, got %q", c.BaseURL)
	}
	if c.ConcurrencyLimit < 1 {
		return fmt.Errorf("CONCURRENCY_LIMIT must be at least 1, got %d", c.ConcurrencyLimit)
	}
	if c.PageCeiling < 1 {
		return fmt.Errorf("PAGE_CEILING must be at least 1, got %d", c.PageCeiling)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_MINUTES must be positive")
	}
	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendMemcache:
		if c.MemcacheAddr == "" {
			return fmt.Errorf("MEMCACHE_ADDR is required when CACHE_BACKEND=memcache")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

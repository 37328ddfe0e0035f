package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telspec/phoneapi/api"
	"telspec/phoneapi/config"
	"telspec/phoneapi/helpers"
	"telspec/phoneapi/internal/metrics"
	"telspec/phoneapi/logger"
	"telspec/phoneapi/services/aggregator"
	"telspec/phoneapi/services/cache"
	"telspec/phoneapi/services/publisher"
	"telspec/phoneapi/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.BaseURL).
		Str("cache_backend", cfg.CacheBackend).
		Dur("cache_ttl", cfg.CacheTTL).
		Int("concurrency", cfg.ConcurrencyLimit).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	m := metrics.New()
	fetcher := helpers.NewFetcher(cfg.FetchTimeout)
	agg := aggregator.New(cfg, fetcher, services.Results, services.Publisher, m)

	// Optional background cache warmer
	if cfg.WarmInterval > 0 {
		w := worker.NewWorker(ctx, agg, cfg.WarmInterval)
		go func() {
			log.Info().Dur("interval", cfg.WarmInterval).Msg("Starting cache warmer")
			if err := w.Start(); err != nil {
				log.Error().Err(err).Msg("Cache warmer exited with error")
			}
		}()
	}

	handler := api.NewHandler(agg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/phones", handler.Phones)
	mux.HandleFunc("/healthz", handler.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Listening")
		serverDone <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

// Services holds all the initialized services
type Services struct {
	Results   *cache.ResultStore
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes the cache backend and the optional publisher
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	var backend cache.CacheService
	switch cfg.CacheBackend {
	case config.CacheBackendMemcache:
		backend = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using memcache result cache at %s", cfg.MemcacheAddr)
	default:
		backend = cache.NewMemoryService()
		logger.Info("Using in-process result cache")
	}
	services.Results = cache.NewResultStore(backend, cfg.CacheTTL)

	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services
}

// Package worker keeps the full-catalog cache entry warm by re-running
// the sweep on a fixed interval.
package worker

import (
	"context"
	"time"

	"telspec/phoneapi/internal/catalog"
	"telspec/phoneapi/logger"
	"telspec/phoneapi/services/aggregator"
)

// Worker periodically refreshes the full-catalog result so interactive
// requests for it stay cache hits.
type Worker struct {
	ctx      context.Context
	agg      *aggregator.Aggregator
	interval time.Duration
	log      *logger.Logger
}

// NewWorker creates a new cache warmer.
func NewWorker(ctx context.Context, agg *aggregator.Aggregator, interval time.Duration) *Worker {
	return &Worker{
		ctx:      ctx,
		agg:      agg,
		interval: interval,
		log:      logger.ForComponent("warmer"),
	}
}

// Start runs the warm loop until the context is cancelled.
func (w *Worker) Start() error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.warm()

		select {
		case <-w.ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// warm re-runs the full-catalog sweep with refresh semantics.
func (w *Worker) warm() {
	start := time.Now()

	result, err := w.agg.Aggregate(w.ctx, catalog.Query{Refresh: true})
	if err != nil {
		w.log.Error().Err(err).Msg("Warm sweep failed")
		return
	}

	w.log.Info().
		Int("phones", len(result.Items)).
		Dur("elapsed", time.Since(start)).
		Msg("Warmed full catalog cache")
}

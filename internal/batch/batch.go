// Package batch provides a bounded-parallelism executor that processes
// work in consecutive waves, throttling the upstream host with a fixed
// delay between waves.
package batch

import (
	"context"
	"sync"
	"time"
)

// Run splits items into consecutive chunks of size limit and runs each
// chunk's workers concurrently, waiting for the whole chunk to settle
// before sleeping delay and starting the next one. Results come back in
// input order; items whose worker returned an error (or panicked) are
// omitted, never failing the batch.
func Run[T, R any](ctx context.Context, items []T, limit int, delay time.Duration, worker func(context.Context, T) (R, error)) []R {
	if len(items) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}

	results := make([]R, len(items))
	ok := make([]bool, len(items))

	for start := 0; start < len(items); start += limit {
		end := min(start+limit, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				// A single worker must never take down the batch.
				defer func() { _ = recover() }()

				r, err := worker(ctx, items[i])
				if err != nil {
					return
				}
				results[i] = r
				ok[i] = true
			}(i)
		}
		wg.Wait()

		time.Sleep(delay)
	}

	out := make([]R, 0, len(items))
	for i, r := range results {
		if ok[i] {
			out = append(out, r)
		}
	}
	return out
}

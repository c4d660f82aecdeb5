package prober

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"opml-gardener/internal/observability/metrics"
)

// ProgressFunc is invoked after each completed probe with the number of
// probes finished so far and the batch total. Invocation order within a
// chunk is unspecified, but completed is monotonically non-decreasing and
// reaches total exactly when the batch finishes.
type ProgressFunc func(completed, total int)

// ProbeBatch probes the given URLs in chunks of at most the configured
// concurrency, waiting for each whole chunk before starting the next.
// onProgress may be nil.
//
// The batch checks ctx between chunks: on cancellation the remaining URLs
// are skipped and the results already gathered are returned as-is.
// Completed probes are never rolled back.
func (p *Prober) ProbeBatch(ctx context.Context, urls []string, onProgress ProgressFunc) map[string]Result {
	total := len(urls)
	results := make(map[string]Result, total)
	if total == 0 {
		return results
	}
	metrics.ProbeBatchesTotal.Inc()

	var mu sync.Mutex
	completed := 0

	for start := 0; start < total; start += p.cfg.Concurrency {
		if ctx.Err() != nil {
			break
		}

		end := min(start+p.cfg.Concurrency, total)

		var g errgroup.Group
		for _, u := range urls[start:end] {
			u := u
			g.Go(func() error {
				res := p.ProbeOne(ctx, u)

				// The callback runs under the lock so its completed
				// argument is strictly increasing across goroutines.
				mu.Lock()
				results[u] = res
				completed++
				if onProgress != nil {
					onProgress(completed, total)
				}
				mu.Unlock()
				return nil
			})
		}
		// Probes fold their failures into Results; the group only
		// provides the chunk barrier.
		_ = g.Wait()
	}
	return results
}

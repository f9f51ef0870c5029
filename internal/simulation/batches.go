package simulation

import (
	"context"
	"fmt"
	"sync"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/randsrc"
	"venture-fund-lab/internal/returns"
	"venture-fund-lab/internal/scenario"
)

const (
	// maxBatchSize caps per-batch work so large runs fan out across workers.
	maxBatchSize = 1000

	// ctxCheckInterval is how many scenarios a worker generates between
	// context checks. Cancellation latency stays bounded without paying a
	// select on every draw.
	ctxCheckInterval = 256
)

// batch is one contiguous slice of the scenario index space.
type batch struct {
	index int
	start int
	count int
}

// planBatches splits total scenarios into contiguous batches. Small runs
// get a quarter-sized batch so even they exercise the concurrent path.
func planBatches(total int) []batch {
	size := total / 4
	if size < 1 {
		size = 1
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}

	var batches []batch
	for start := 0; start < total; start += size {
		count := size
		if start+count > total {
			count = total - start
		}
		batches = append(batches, batch{index: len(batches), start: start, count: count})
	}
	return batches
}

// runBatches generates cfg.ScenarioCount scenarios concurrently. Each batch
// owns an independent random source seeded baseSeed+batchIndex, so results
// are reproducible regardless of scheduling, and scenarios land in a fixed
// position in the output slice. The first batch error cancels the rest and
// fails the whole run.
func (e *Engine) runBatches(ctx context.Context, baseSeed int64, in scenario.Inputs, params domain.DistributionParams, total int) ([]domain.Scenario, error) {
	batches := planBatches(total)
	out := make([]domain.Scenario, total)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		completed int
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for _, b := range batches {
		wg.Add(1)
		go func(b batch) {
			defer wg.Done()

			src, err := randsrc.New(baseSeed + int64(b.index))
			if err != nil {
				fail(fmt.Errorf("batch %d: seed source: %w", b.index, err))
				return
			}
			gen := scenario.NewGenerator(returns.NewSampler(src), params)

			for i := 0; i < b.count; i++ {
				if i%ctxCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						fail(fmt.Errorf("batch %d: %w", b.index, err))
						return
					}
				}

				s, err := gen.Generate(in)
				if err != nil {
					fail(fmt.Errorf("batch %d scenario %d: %w", b.index, b.start+i, err))
					return
				}
				out[b.start+i] = s
			}

			// Holding mu serializes progress callbacks, so observers
			// need no locking of their own and counts arrive in order.
			mu.Lock()
			completed += b.count
			e.reportProgress(completed, total)
			mu.Unlock()
		}(b)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

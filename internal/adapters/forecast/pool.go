package forecast

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/okian/surfcast/pkg/metrics"
)

const defaultWorkers = 4

// Pool fans FetchSpot calls out over a bounded set of workers and collects
// them into one Snapshot. The first failure cancels the remaining work.
type Pool struct {
	fetcher SpotFetcher
	workers int
	logger  logger.Logger
}

// NewPool creates a pool around fetcher. Only WithWorkers and WithLogger apply.
func NewPool(fetcher SpotFetcher, opts ...Option) *Pool {
	s := applyOptions(opts)
	return &Pool{
		fetcher: fetcher,
		workers: s.workers,
		logger:  s.logger.Named("forecast-pool"),
	}
}

// Name returns the wrapped fetcher's name.
func (p *Pool) Name() string {
	return p.fetcher.Name()
}

// FetchAll fetches every spot and returns a complete snapshot or the first error.
func (p *Pool) FetchAll(ctx context.Context, spots []model.Spot) (Snapshot, error) {
	if len(spots) == 0 {
		return Snapshot{}, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.workers
	if workers > len(spots) {
		workers = len(spots)
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		results  = make([]model.ForecastRecord, len(spots))
		jobs     = make(chan int)
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				metrics.AddForecastPoolInFlight(1)
				rec, err := p.fetcher.FetchSpot(ctx, spots[idx])
				metrics.AddForecastPoolInFlight(-1)
				if err != nil {
					fail(fmt.Errorf("spot %s: %w", spots[idx].ID, err))
					continue
				}
				results[idx] = rec
			}
		}()
	}

dispatch:
	for i := range spots {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		p.logger.Warn(ctx, "forecast cycle aborted",
			logger.String("source", p.fetcher.Name()),
			logger.Error(firstErr),
		)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch forecasts: %w", err)
	}

	snap := make(Snapshot, len(spots))
	for i, sp := range spots {
		snap[sp.ID] = results[i]
	}
	return snap, nil
}

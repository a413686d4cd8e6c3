package sim

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/logging"
)

// Batch runs independent trajectories of one system concurrently. Run i is
// seeded seedStart+i, so results do not depend on scheduling. Results are
// returned per trajectory; nothing is averaged.
type Batch struct {
	newSimulator func() *Simulator
	numRuns      int
	seedStart    uint64
	workers      int
	logger       *log.Logger
}

// NewBatch calls factory once per trajectory so that metrics are never
// shared between goroutines.
func NewBatch(factory func() *Simulator, numRuns int, seedStart uint64) *Batch {
	return &Batch{
		newSimulator: factory,
		numRuns:      numRuns,
		seedStart:    seedStart,
		workers:      runtime.GOMAXPROCS(0),
		logger:       logging.Nop(),
	}
}

// SetWorkers bounds the number of trajectories in flight. n <= 0 means no
// limit.
func (b *Batch) SetWorkers(n int) { b.workers = n }

func (b *Batch) SetLogger(l *log.Logger) { b.logger = l }

// Run stops at the first failing trajectory and returns its error.
func (b *Batch) Run(ctx context.Context, x0 dynamo.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, b.numRuns)
	start := time.Now()
	b.logger.Info("batch started", "runs", b.numRuns, "workers", b.workers, "seed", b.seedStart)

	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i := 0; i < b.numRuns; i++ {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = b.seedStart + uint64(i)

			res, err := b.newSimulator().Run(gctx, x0, cfgCopy)
			if err != nil {
				b.logger.Debug("trajectory failed", "index", i, "err", err)
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Info("batch finished", "runs", b.numRuns, "elapsed", time.Since(start))
	return results, nil
}

// Average returns the mean of metric name over results that reported it.
func Average(results []*Result, name string) (float64, bool) {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Metrics[name]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

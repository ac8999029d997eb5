package hcp

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// OptimizerDriver fans out per-TEB optimization onto one goroutine per
// TEB, or runs sequentially, following the shape of
// go.viam.com/rdk/utils.RunInParallel. Unlike RunInParallel, a failing
// worker does not cancel the others: the driver's contract requires every
// TEB to be visited exactly once per call, with errors surfaced only
// after all workers join.
type OptimizerDriver struct {
	EnableMultithreading bool
}

// NewOptimizerDriver constructs a driver from the given config.
func NewOptimizerDriver(cfg *Config) *OptimizerDriver {
	return &OptimizerDriver{EnableMultithreading: cfg.EnableMultithreading}
}

// OptimizeAll optimizes every TEB currently in pool. Each worker mutates
// only its own TEB; the pool container itself is never mutated here.
func (d *OptimizerDriver) OptimizeAll(ctx context.Context, pool *Pool, innerIter, outerIter int) error {
	tebs := pool.TEBs()
	if len(tebs) == 0 {
		return nil
	}

	if !d.EnableMultithreading || len(tebs) == 1 {
		var errs error
		for _, t := range tebs {
			errs = multierr.Append(errs, t.Optimize(ctx, innerIter, outerIter, true))
		}
		return errs
	}

	errs := make([]error, len(tebs))
	var wg sync.WaitGroup
	wg.Add(len(tebs))
	for i, t := range tebs {
		i, t := i, t
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic optimizing TEB %d: %v", i, r)
				}
			}()
			errs[i] = t.Optimize(ctx, innerIter, outerIter, true)
		}()
	}
	wg.Wait()
	return multierr.Combine(errs...)
}

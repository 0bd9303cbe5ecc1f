package workflow

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/rfp"
)

// RunBatch evaluates independent requests concurrently on a bounded worker
// pool. Results are returned in input order. Each run owns its own State;
// nothing mutable is shared between runs.
//
// With Batch.FailFast set, the first infrastructure error cancels runs that
// have not started yet. Otherwise every request is processed and errors are
// joined.
func (o *Orchestrator) RunBatch(ctx context.Context, reqs []rfp.Request) ([]*State, error) {
	results := make([]*State, len(reqs))
	workers := o.cfg.Batch.Workers(len(reqs))

	o.emit(ctx, EventBatchStart, observability.LevelInfo, map[string]any{
		"requests": len(reqs),
		"workers":  workers,
	})

	var (
		g    *errgroup.Group
		gctx = ctx
	)
	if o.cfg.Batch.FailFast() {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	g.SetLimit(workers)

	var (
		mu   sync.Mutex
		errs []error
	)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			s, err := o.Run(gctx, req)
			results[i] = s
			if err == nil {
				return nil
			}
			if o.cfg.Batch.FailFast() {
				return err
			}

			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = errors.Join(errs...)
	}

	o.emit(ctx, EventBatchComplete, observability.LevelInfo, map[string]any{
		"requests": len(reqs),
		"error":    err != nil,
	})

	return results, err
}

package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RouteRequest names the two ends of a route.
type RouteRequest struct {
	Start string
	Goal  string
}

// BatchResult pairs a request with its outcome. Err is set when that request
// alone failed, for example on an unknown station.
type BatchResult struct {
	Request RouteRequest
	Result  *SearchResult
	Err     error
}

// SolveBatch solves every request with at most workers concurrent searches.
// Results keep the order of reqs. Per-request failures are reported in the
// matching BatchResult; only cancellation of ctx fails the whole batch.
func SolveBatch(ctx context.Context, search *RouteSearch, reqs []RouteRequest, workers int) ([]BatchResult, error) {
	if search == nil {
		return nil, errors.New("solve batch: search must be non-nil")
	}
	if workers < 1 {
		workers = 1
	}

	out := make([]BatchResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := search.Solve(gctx, req.Start, req.Goal)
			if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return err
			}

			out[i] = BatchResult{Request: req, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("solve batch: %w", err)
	}

	return out, nil
}

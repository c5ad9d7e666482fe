package viewmodel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// UnitResult reports how one sub-call of a bulk save went.
type UnitResult struct {
	Key string
	Err error
}

// RunAll calls fn once per key, all at the same time, and waits for every
// call. A failing unit does not cancel the others and nothing is rolled back.
// The returned error is the first failure observed, if any.
func RunAll(ctx context.Context, keys []string, fn func(ctx context.Context, key string) error) ([]UnitResult, error) {
	results := make([]UnitResult, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			err := fn(ctx, key)
			results[i] = UnitResult{Key: key, Err: err}
			return err
		})
	}
	err := g.Wait()
	return results, err
}

// Failed returns the keys whose call failed, in input order.
func Failed(results []UnitResult) []string {
	var keys []string
	for _, r := range results {
		if r.Err != nil {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

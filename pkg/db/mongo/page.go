package mongo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchPage runs the count and the page query concurrently and joins them.
// The first failure cancels the other query.
func FetchPage[T any](
	ctx context.Context,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context) ([]T, error),
) ([]T, int64, error) {
	g, gctx := errgroup.WithContext(ctx)

	var total int64
	var items []T

	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = find(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

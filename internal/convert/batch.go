package convert

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Batch converts several files concurrently with at most workers conversions
// in flight. A failing file does not stop the others. Results are aligned with
// paths (nil for failed files) and the returned error combines every per-file
// error.
func Batch(ctx context.Context, paths []string, opts Options, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	// Workers never return an error to the group, so one failure does not
	// cancel the rest.
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		if err := ctx.Err(); err != nil {
			errs[i] = fmt.Errorf("%s: %w", path, err)
			continue
		}
		g.Go(func() error {
			res, err := ConvertFile(ctx, path, opts)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, multierr.Combine(errs...)
}

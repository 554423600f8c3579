package task

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	domaintask "github.com/alanyang/taskboard/internal/domain/task"
)

// Listing is the result of List. NoContent is a success without a body and is
// distinct from an empty Tasks slice.
type Listing struct {
	Tasks     []domaintask.Task
	NoContent bool
}

// List reconciles the filtered and the unfiltered task listings:
//   - no filtered match falls back to every task, whether or not filters were given;
//   - an empty full listing with a non-empty filtered one yields NoContent. A consistent
//     store never reaches this branch.
//
// Both listings are always fetched.
func (s *Service) List(ctx context.Context, filters domaintask.ListFilters) (Listing, error) {
	var filtered, all []domaintask.Task

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		filtered, err = s.ListFiltered(ctx, filters)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		all, err = s.ListAll(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return Listing{}, err
	}

	if len(filtered) == 0 {
		return Listing{Tasks: all}, nil
	}
	if len(all) == 0 {
		return Listing{NoContent: true}, nil
	}
	return Listing{Tasks: filtered}, nil
}

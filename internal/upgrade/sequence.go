package upgrade

import (
	"context"
	"errors"
)

// Policy decides what RunSequence does after a failed step.
type Policy int

const (
	// FailFast stops at the first failed step.
	FailFast Policy = iota
	// CollectAll runs every step and joins the failures.
	CollectAll
)

// RunSequence runs step for each item in order, one at a time. Cancellation
// of ctx stops the sequence before the next step.
func RunSequence[T any](ctx context.Context, items []T, policy Policy, step func(context.Context, T) error) error {
	var errs []error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := step(ctx, item); err != nil {
			if policy == FailFast {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

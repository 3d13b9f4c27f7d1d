package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bountychain/report-vault/internal/repository"
)

// retryOnce runs op and, if it failed with a storage error, runs it one more
// time. Domain outcomes and cancellations are returned as-is.
func retryOnce(ctx context.Context, action string, op func(attempt int) error) error {
	err := op(1)
	if err == nil || !isTransient(ctx, err) {
		return err
	}
	slog.Warn("storage operation failed, retrying once", "action", action, "error", err)
	return op(2)
}

func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrStatusConflict),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

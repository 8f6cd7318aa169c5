package service

import (
	"context"
	"errors"

	"github.com/delmon-pos/api/internal/database"
)

// ErrStoreUnavailable marks failures where the database itself is
// unreachable, as opposed to a statement-level error.
var ErrStoreUnavailable = errors.New("store unavailable")

// retryOnce runs op and repeats it exactly one time when the failure looks
// like a dropped connection. This is the whole retry policy: every workflow
// funnels its storage access through here instead of retrying ad hoc.
func retryOnce[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	v, err := op(ctx)
	if err != nil && database.IsConnectivityError(err) {
		return op(ctx)
	}
	return v, err
}

// Package lock serialises allocate-then-write sequences per scope key.
package lock

import (
	"context"
	"errors"
)

var ErrNotObtained = errors.New("lock: not obtained")

// Locker grants exclusive sections keyed by an arbitrary string. The
// returned release func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// With runs fn while holding key.
func With(ctx context.Context, l Locker, key string, fn func() error) error {
	release, err := l.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

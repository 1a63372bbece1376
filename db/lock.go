package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the storage lock past the
// context deadline.
var ErrLocked = errors.New("storage is locked by another storyboard process")

const lockRetryDelay = 50 * time.Millisecond

// Lock takes an exclusive advisory lock next to the database file so only
// one process mutates a project at a time. Release it with Unlock.
func Lock(ctx context.Context, dbPath string) (*flock.Flock, error) {
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("acquire storage lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

package port

import (
	"context"
	"time"
)

// LockRepository provides advisory per-resource locks so a log rewrite is
// never raced by an append from another process. Locks are cooperative:
// holders identify themselves by token and only the holder may release.
type LockRepository interface {
	// AcquireLock attempts to take the named lock for at most ttl.
	// Returns the holder token and false when the lock is already held.
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)

	// ReleaseLock releases the named lock if token still holds it.
	ReleaseLock(ctx context.Context, name, token string) error
}

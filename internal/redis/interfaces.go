package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDispatchLock(ctx context.Context, ttl time.Duration) (string, bool, error)
	ReleaseDispatchLock(ctx context.Context, token string) error
}

// Ensure concrete types implement interfaces.
var _ LockStoreInterface = (*LockStore)(nil)

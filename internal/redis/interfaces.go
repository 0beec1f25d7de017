package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireInitiationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseInitiationLock(ctx context.Context, bookingID string) error
}

// Ensure concrete types implement interfaces.
var _ LockStoreInterface = (*LockStore)(nil)

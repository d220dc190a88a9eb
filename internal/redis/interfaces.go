package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for short-lived driver claim locks.
type LockStoreInterface interface {
	AcquireDriverLock(ctx context.Context, driverID int64, ttl time.Duration) (token string, ok bool, err error)
	ReleaseDriverLock(ctx context.Context, driverID int64, token string) error
}

var _ LockStoreInterface = (*LockStore)(nil)

package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed trip locking.
type LockStoreInterface interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseTripLock(ctx context.Context, tripID string) error
}

// CacheStoreInterface defines the interface for report caching.
type CacheStoreInterface interface {
	GetReport(ctx context.Context, key string, dest any) (bool, error)
	SetReport(ctx context.Context, key string, report any) error
	InvalidateReports(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)

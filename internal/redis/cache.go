package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches assembled report payloads in Redis. Reporting reads the
// same store the state machine writes, so a short TTL plus invalidation on
// mutation keeps reports fresh without recomputing aggregates per request.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ReportTTL bounds how stale a cached report can get even without any
// invalidating write.
const ReportTTL = 30 * time.Second

const reportCachePrefix = "cache:report:"

// Report cache keys.
const (
	ReportKeyAnalytics = "analytics"
	ReportKeyAlerts    = "alerts"
	ReportKeyDashboard = "dashboard"
)

// GetReport loads a cached report into dest. Returns false on a miss.
func (s *CacheStore) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, reportCachePrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // cache miss
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetReport stores an assembled report under the given key.
func (s *CacheStore) SetReport(ctx context.Context, key string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, reportCachePrefix+key, data, ReportTTL).Err()
}

// InvalidateReports drops every cached report. Called after any write that
// changes what the reports would show.
func (s *CacheStore) InvalidateReports(ctx context.Context) error {
	keys := []string{
		reportCachePrefix + ReportKeyAnalytics,
		reportCachePrefix + ReportKeyAlerts,
		reportCachePrefix + ReportKeyDashboard,
	}
	return s.client.Del(ctx, keys...).Err()
}

package source

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/csat-server/internal/gauge"
)

const keyPrefix = "csat:records:"

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RecordFetcher loads every record of a data source.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, dataSource string) ([]gauge.Record, error)
}

// CachedRecords is a read-through cache in front of a RecordFetcher, keyed by
// data source.
type CachedRecords struct {
	next   RecordFetcher
	cache  Cacher
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger
}

func NewCachedRecords(next RecordFetcher, cache Cacher, ttl time.Duration, logger *zap.Logger) *CachedRecords {
	if next == nil || cache == nil {
		panic("record fetcher and cache must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRecords{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("record-cache"),
	}
}

func (c *CachedRecords) FetchRecords(ctx context.Context, dataSource string) ([]gauge.Record, error) {
	return FindAndCache(ctx, c.cache, &c.sf, keyPrefix+dataSource, c.ttl, c.logger,
		func(ctx context.Context) ([]gauge.Record, error) {
			return c.next.FetchRecords(ctx, dataSource)
		})
}

// Invalidate drops the cached records of dataSource so the next fetch reads
// through.
func (c *CachedRecords) Invalidate(ctx context.Context, dataSource string) error {
	return c.cache.Del(ctx, keyPrefix+dataSource)
}

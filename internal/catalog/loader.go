// internal/catalog/loader.go
package catalog

import (
	"context"
	"time"

	apperrors "plan-advisor/internal/common/errors"
	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "catalog:snapshot"

// Loader resolves a catalog snapshot per request: Redis copy when fresh,
// source fetch otherwise. The core pipeline never touches the cache; it only
// receives the resolved immutable snapshot.
type Loader struct {
	source Source
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewLoader(source Source, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Loader {
	return &Loader{
		source: source,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-loader"}),
	}
}

// Snapshot returns the current catalog. A fetch failure is a service-level
// error (CATALOG_FETCH_FAILED), distinct from a catalog that filtered to
// zero plans. Redis being unreachable degrades to a direct fetch.
func (l *Loader) Snapshot(ctx context.Context) (*RawCatalog, error) {
	if l.redis != nil {
		if cached, err := l.redis.Get(ctx, snapshotKey).Result(); err == nil {
			metrics.CatalogCacheHits.WithLabelValues("hit").Inc()
			snap, err := Decode([]byte(cached))
			if err == nil {
				return snap, nil
			}
			l.logger.Warn("cached catalog is malformed, refetching", map[string]interface{}{
				"error": err.Error(),
			})
		} else if err != redis.Nil {
			l.logger.Warn("catalog cache unavailable, fetching directly", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			metrics.CatalogCacheHits.WithLabelValues("miss").Inc()
		}
	}

	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogFetchFailedError(err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, apperrors.NewCatalogDecodeFailedError(err)
	}

	if l.redis != nil {
		if err := l.redis.Set(ctx, snapshotKey, data, l.ttl).Err(); err != nil {
			l.logger.Warn("failed to cache catalog snapshot", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return snap, nil
}

// Invalidate drops the cached snapshot so the next request refetches.
func (l *Loader) Invalidate(ctx context.Context) error {
	if l.redis == nil {
		return nil
	}
	return l.redis.Del(ctx, snapshotKey).Err()
}

package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ometrics "github.com/briefwright/orchestrator/internal/metrics"
	"github.com/briefwright/orchestrator/internal/models"
)

// Cache stores fetched evidence pages in Redis keyed by URL so a page is
// fetched at most once per TTL window, even across runs.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache returns a page cache backed by rdb. A TTL of zero means pages
// never expire.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

func pageKey(url string) string {
	return "evidence:page:" + url
}

// Get returns the cached page for url, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, url string) (*models.EvidencePage, error) {
	raw, err := c.rdb.Get(ctx, pageKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		ometrics.EvidenceCacheHits.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		ometrics.EvidenceCacheHits.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("evidence cache get: %w", err)
	}

	var page models.EvidencePage
	if err := json.Unmarshal(raw, &page); err != nil {
		// A corrupt entry behaves like a miss; the fetcher will overwrite it.
		c.logger.Warn("Dropping corrupt evidence cache entry",
			zap.String("url", url),
			zap.Error(err),
		)
		ometrics.EvidenceCacheHits.WithLabelValues("miss").Inc()
		return nil, nil
	}
	ometrics.EvidenceCacheHits.WithLabelValues("hit").Inc()
	return &page, nil
}

// Put stores a fetched page. Failures are returned but callers treat the
// cache as best effort.
func (c *Cache) Put(ctx context.Context, page models.EvidencePage) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("evidence cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, pageKey(page.URL), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("evidence cache put: %w", err)
	}
	return nil
}

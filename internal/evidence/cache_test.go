package evidence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCache(rdb, ttl, zap.NewNop()), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	page := models.EvidencePage{
		URL:   "https://acme.example/a",
		Title: "A",
		Text:  "alpha",
	}
	require.NoError(t, c.Put(ctx, page))

	got, err := c.Get(ctx, page.URL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, page, *got)
}

func TestCacheMissReturnsNil(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	got, err := c.Get(context.Background(), "https://acme.example/missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheCorruptEntryBehavesLikeMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	require.NoError(t, mr.Set("evidence:page:https://acme.example/a", "{not json"))

	got, err := c.Get(context.Background(), "https://acme.example/a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	page := models.EvidencePage{URL: "https://acme.example/a", Title: "A"}
	require.NoError(t, c.Put(ctx, page))

	mr.FastForward(2 * time.Minute)
	got, err := c.Get(ctx, page.URL)
	require.NoError(t, err)
	assert.Nil(t, got)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedSummary struct {
	Summary string `json:"summary"`
}

func setupTestCache(t *testing.T) (*LLMResultCache, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewLLMResultCache(client, time.Hour)

	return c, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestLLMResultCacheRoundTrip(t *testing.T) {
	c, _, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	key := SummaryKey("some long text", 150, 30)

	var out cachedSummary
	found, err := c.Get(ctx, key, &out)
	assert.NoError(t, err)
	assert.False(t, found, "cold cache should miss")

	err = c.Set(ctx, key, cachedSummary{Summary: "short version"})
	assert.NoError(t, err)

	found, err = c.Get(ctx, key, &out)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "short version", out.Summary)
}

func TestLLMResultCacheKeyIsolation(t *testing.T) {
	c, _, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	err := c.Set(ctx, SummaryKey("text", 150, 30), cachedSummary{Summary: "a"})
	require.NoError(t, err)

	// Same text, different length bounds: separate entry.
	var out cachedSummary
	found, err := c.Get(ctx, SummaryKey("text", 100, 30), &out)
	assert.NoError(t, err)
	assert.False(t, found)

	// Sentiment namespace never sees summary entries.
	found, err = c.Get(ctx, SentimentKey("text"), &out)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestLLMResultCacheExpiry(t *testing.T) {
	c, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	key := SentimentKey("happy text")
	require.NoError(t, c.Set(ctx, key, cachedSummary{Summary: "positive"}))

	mr.FastForward(2 * time.Hour)

	var out cachedSummary
	found, err := c.Get(ctx, key, &out)
	assert.NoError(t, err)
	assert.False(t, found, "entry should expire after TTL")
}

func TestLLMResultCacheNilClient(t *testing.T) {
	c := NewLLMResultCache(nil, time.Hour)
	ctx := context.Background()

	// Degrades to a no-op when redis is not configured.
	assert.NoError(t, c.Set(ctx, "k", cachedSummary{Summary: "x"}))
	var out cachedSummary
	found, err := c.Get(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, found)
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	summaryPrefix   = "llm:summary:"
	sentimentPrefix = "llm:sentiment:"
)

// LLMResultCache stores summarize/sentiment results in redis keyed by a
// hash of the request, so identical texts don't pay for a second
// completion call. Entries expire via redis TTL.
type LLMResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLLMResultCache(client *redis.Client, ttl time.Duration) *LLMResultCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LLMResultCache{client: client, ttl: ttl}
}

func requestKey(prefix string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return prefix + hex.EncodeToString(h.Sum(nil))
}

func SummaryKey(text string, maxLength, minLength int) string {
	return requestKey(summaryPrefix, text, fmt.Sprint(maxLength), fmt.Sprint(minLength))
}

func SentimentKey(text string) string {
	return requestKey(sentimentPrefix, text)
}

// Get unmarshals a cached result into dest. Returns false on miss or
// when no redis client is configured.
func (c *LLMResultCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("llm result cache get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("llm result cache decode: %w", err)
	}
	return true, nil
}

func (c *LLMResultCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("llm result cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("llm result cache set: %w", err)
	}
	return nil
}

package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache memoizes query embeddings so repeated questions don't
// hit the embedding provider again.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache() *EmbeddingCache {
	// Default expiration 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &EmbeddingCache{
		cache: c,
	}
}

func key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (r *EmbeddingCache) Save(text string, embedding []float32) {
	r.cache.Set(key(text), embedding, cache.DefaultExpiration)
}

func (r *EmbeddingCache) Get(text string) ([]float32, bool) {
	if x, found := r.cache.Get(key(text)); found {
		return x.([]float32), true
	}
	return nil, false
}

func (r *EmbeddingCache) Flush() {
	r.cache.Flush()
}

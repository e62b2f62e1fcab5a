package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache memoizes query embeddings in-process. Identical queries
// inside the window skip the embedding API entirely.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache() *EmbeddingCache {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &EmbeddingCache{
		cache: c,
	}
}

func (c *EmbeddingCache) Get(query string) ([]float32, bool) {
	if x, found := c.cache.Get(query); found {
		return x.([]float32), true
	}
	return nil, false
}

func (c *EmbeddingCache) Set(query string, vector []float32) {
	c.cache.Set(query, vector, cache.DefaultExpiration)
}

package middleware

import "github.com/gin-gonic/gin"

// CacheHeader reports whether a response was served from the upstream cache.
const CacheHeader = "X-Cache"

const cacheHitKey = "cache_hit"

// SetCacheHit records the cache outcome on the context and the response headers.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	c.Set(cacheHitKey, hit)
	if hit {
		c.Header(CacheHeader, "HIT")
		return
	}
	c.Header(CacheHeader, "MISS")
}

// CacheHit returns the recorded cache outcome and whether one was recorded.
func CacheHit(c *gin.Context) (hit bool, recorded bool) {
	if c == nil {
		return false, false
	}
	value, exists := c.Get(cacheHitKey)
	if !exists {
		return false, false
	}
	hit, ok := value.(bool)
	return hit, ok
}

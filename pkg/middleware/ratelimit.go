package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/redis"
)

// RateLimit applies a fixed-window per-IP limit backed by redis.
func RateLimit(rdb *redis.RedisClient, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := rdb.GetClient().Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not block traffic.
			c.Next()
			return
		}
		if count == 1 {
			rdb.GetClient().Expire(ctx, key, window)
		}
		if count > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

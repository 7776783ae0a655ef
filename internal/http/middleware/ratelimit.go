package middleware

import (
	"fmt"
	"net/http"
	"time"

	"mines_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rateLimitRedis *redis.Client

// InitRedisRateLimiter задаёт redis-клиент для лимитера
func InitRedisRateLimiter(client *redis.Client) {
	rateLimitRedis = client
}

// RateLimit ограничивает число запросов с одного ip в окне.
// Без redis лимитер пропускает всё - игра важнее квот
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimitRedis == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := rateLimitRedis.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("лимитер недоступен", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			rateLimitRedis.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}

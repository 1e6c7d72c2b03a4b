package httpmiddleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisWindow is a fixed-window per-minute limiter shared across instances.
type RedisWindow struct {
	client *redis.Client
	prefix string
	limit  int
}

// NewRedisWindow builds a limiter using INCR/EXPIRE on one key per client per minute.
func NewRedisWindow(client *redis.Client, prefix string, perMinute int) *RedisWindow {
	if prefix == "" {
		prefix = "asistencias:ratelimit"
	}
	return &RedisWindow{client: client, prefix: prefix, limit: perMinute}
}

// Allow implements Limiter. Redis errors fail open so an unreachable Redis
// never takes the API down with it.
func (l *RedisWindow) Allow(c *gin.Context, key string) bool {
	ctx := c.Request.Context()
	window := time.Now().Unix() / 60
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, window)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		slog.Warn("rate limiter redis incr failed", "error", err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, 2*time.Minute).Err(); err != nil {
			slog.Warn("rate limiter redis expire failed", "error", err)
		}
	}
	return count <= int64(l.limit)
}

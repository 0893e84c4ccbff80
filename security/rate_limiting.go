package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window per-IP request budget backed by
// Redis, shared across all server processes.
type RateLimiter struct {
	redis     *redis.Client
	perMinute int
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{redis: redisClient, perMinute: perMinute}
}

// Middleware limits the wrapped route. A Redis failure lets the request
// through rather than failing the API on the limiter's behalf.
func (r *RateLimiter) Middleware(next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if r == nil || r.redis == nil || r.perMinute <= 0 {
			return next(e)
		}

		ctx := e.Request.Context()
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", e.RealIP(), window)

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			return next(e)
		}
		if count == 1 {
			r.redis.Expire(ctx, key, time.Minute)
		}
		if count > int64(r.perMinute) {
			return apis.NewApiError(http.StatusTooManyRequests,
				"Rate limit exceeded. Please try again later.", nil)
		}

		return next(e)
	}
}

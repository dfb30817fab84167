package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/tripnote/tripnote-backend/internal/database"
	"github.com/tripnote/tripnote-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the sliding window for per-IP request counting.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests caps requests per IP per window. Composition makes
	// several slow upstream calls per request, so the cap is low.
	RateLimitMaxRequests = 30
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimitMiddleware provides per-IP rate limiting backed by Redis. Redis
// being unreachable fails open; limiting is protection, not a dependency.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		key := RateLimitKeyPrefix + ip

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		count, err := database.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, key, RateLimitWindow)
		}

		if count > RateLimitMaxRequests {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many requests. Please slow down and try again."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

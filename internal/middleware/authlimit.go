// AngelaMos | 2026
// authlimit.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const authFailurePrefix = "authfail:ip:"

// AuthFailureLimiter blocks a client once it has produced max failed (4xx or
// 5xx) responses within window. Successful requests are not counted. Redis
// errors fail open.
func AuthFailureLimiter(
	rdb *redis.Client,
	maxFailures int,
	window time.Duration,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxFailures <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := authFailurePrefix + ClientIP(r)
			ctx := r.Context()

			count, err := rdb.Get(ctx, key).Int()
			switch {
			case err == nil && count >= maxFailures:
				ttl, ttlErr := rdb.TTL(ctx, key).Result()
				if ttlErr != nil || ttl <= 0 {
					ttl = window
				}
				writeTooManyRequests(w, ttl)
				return
			case err != nil && !errors.Is(err, redis.Nil):
				slog.Warn("auth failure limiter unavailable, failing open",
					"error", err,
				)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= http.StatusBadRequest {
				recordAuthFailure(context.WithoutCancel(ctx), rdb, key, window)
			}
		})
	}
}

func recordAuthFailure(
	ctx context.Context,
	rdb *redis.Client,
	key string,
	window time.Duration,
) {
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("record auth failure", "error", err, "key", key)
		return
	}

	if n == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			slog.Warn("expire auth failure counter",
				"error", err,
				"key", key,
				"window", window,
			)
		}
	}
}

package gateway

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	platformredis "darum/internal/platform/redis"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/httputil"
)

const rateLimitWindow = time.Minute

// RateLimit applies a fixed-window per-client-IP limit before
// authentication. A nil Redis client disables the limiter. Redis failures
// fail open: an unreachable limiter must not take the whole edge down.
func RateLimit(client *platformredis.Client, perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "ratelimit:" + clientIP(r) + ":" + time.Now().UTC().Format("200601021504")

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.WarnContext(ctx, "rate limiter unavailable, failing open", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, rateLimitWindow)
			}
			if count > int64(perMinute) {
				w.Header().Set("Retry-After", "60")
				httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

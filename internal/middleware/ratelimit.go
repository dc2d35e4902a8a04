package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/userdesk/userdesk/internal/cache"
	"github.com/userdesk/userdesk/internal/metrics"
)

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
	// Cache selects the Redis token bucket. When nil, an in-process
	// sliding window is used and Burst is ignored.
	Cache   *cache.Cache
	Enabled bool
	RPM     int // Requests per minute per client
	Burst   int
}

// RateLimit returns middleware that rate limits requests per client IP.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	if !cfg.Enabled || cfg.RPM <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	if cfg.Cache == nil {
		return httprate.Limit(cfg.RPM, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				retryAfter := time.Minute
				if v, err := strconv.Atoi(w.Header().Get("Retry-After")); err == nil && v > 0 {
					retryAfter = time.Duration(v) * time.Second
				}
				onLimited(cfg, w, r, clientIP(r), retryAfter, "memory")
			}),
		)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			result, err := cfg.Cache.CheckClientRateLimit(r.Context(), ip, cfg.RPM, cfg.Burst)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				// Fail open
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, cfg.RPM, result.Remaining, result.ResetAt)

			if !result.Allowed {
				onLimited(cfg, w, r, ip, result.RetryAfter, "redis")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func onLimited(cfg RateLimitConfig, w http.ResponseWriter, r *http.Request, ip string, retryAfter time.Duration, backend string) {
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	seconds := int(retryAfter.Seconds())

	cfg.Metrics.IncRateLimited()
	cfg.Logger.Warn("rate limit exceeded",
		slog.String("backend", backend),
		slog.String("ip", ip),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.Int("retry_after_seconds", seconds),
		slog.String("request_id", GetRequestID(r.Context())),
	)

	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", seconds))
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

// clientIP honours X-Forwarded-For / X-Real-IP for proxied requests.
func clientIP(r *http.Request) string {
	ip, err := httprate.KeyByRealIP(r)
	if err != nil || ip == "" {
		return r.RemoteAddr
	}
	return ip
}

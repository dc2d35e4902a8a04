package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/userdesk/userdesk/internal/auth"
	"github.com/userdesk/userdesk/internal/metrics"
)

// defaultMinAuthDuration is the minimum time spent on an auth decision.
const defaultMinAuthDuration = 200 * time.Millisecond

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier *auth.Verifier
	Metrics  metrics.Recorder
	// MinDuration pads every auth decision. Zero means 200ms.
	MinDuration time.Duration
}

// RequireAPIKey returns a middleware that admits only requests carrying
// the configured admin key. A nil Verifier disables the check.
func RequireAPIKey(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	minDuration := cfg.MinDuration
	if minDuration <= 0 {
		minDuration = defaultMinAuthDuration
	}

	return func(next http.Handler) http.Handler {
		if cfg.Verifier == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			principal, reason := authenticate(cfg.Verifier, r)

			if elapsed := time.Since(startTime); elapsed < minDuration {
				time.Sleep(minDuration - elapsed)
			}

			if principal == nil {
				cfg.Metrics.IncAuthFailed()
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("key_prefix", principal.KeyPrefix),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate returns the caller's principal, or nil and a log reason.
func authenticate(v *auth.Verifier, r *http.Request) (*auth.Principal, string) {
	key := extractAPIKey(r)
	if key == "" {
		return nil, "missing_key"
	}

	parsed, err := auth.ParseAPIKey(key)
	if err != nil {
		return nil, "invalid_format"
	}

	if !v.Verify(key) {
		return nil, "invalid_key"
	}

	return &auth.Principal{KeyPrefix: parsed.Prefix, Env: parsed.Env}, ""
}

// extractAPIKey supports both "Authorization: Bearer <key>" and "X-API-Key: <key>".
func extractAPIKey(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// writeAuthError uses one message for all failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="userdesk"`)
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
}

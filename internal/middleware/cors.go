package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Methods the user API answers; PUT is deliberately absent, updates are PATCH.
var corsAllowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPatch,
	http.MethodDelete,
}

// Request headers a browser client may send.
var corsAllowedHeaders = []string{
	"Accept",
	"Authorization",
	"Content-Type",
	"X-Api-Key",
	RequestIDHeader,
	TraceIDHeader,
}

// Response headers a browser client may read: correlation ids and the
// rate limit state needed to back off after a 429.
var corsExposedHeaders = []string{
	RequestIDHeader,
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
	"Retry-After",
}

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	// AllowedOrigins holds exact origins ("https://app.example.com") or
	// subdomain patterns ("https://*.example.com"). Empty denies every origin.
	AllowedOrigins []string
	// MaxAge is how long browsers may cache a preflight answer. Zero means 10 minutes.
	MaxAge time.Duration
}

// originMatcher holds the parsed AllowedOrigins.
type originMatcher struct {
	exact    map[string]bool
	suffixes []originSuffix
}

type originSuffix struct {
	scheme string
	host   string // ".example.com"
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]bool, len(origins))}
	for _, o := range origins {
		o = strings.ToLower(strings.TrimSpace(o))
		scheme, host, ok := strings.Cut(o, "://*.")
		if ok {
			m.suffixes = append(m.suffixes, originSuffix{scheme: scheme, host: "." + host})
			continue
		}
		if o != "" {
			m.exact[o] = true
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	origin = strings.ToLower(origin)
	if m.exact[origin] {
		return true
	}
	if len(m.suffixes) == 0 {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	for _, s := range m.suffixes {
		if u.Scheme == s.scheme && strings.HasSuffix(u.Host, s.host) && len(u.Host) > len(s.host) {
			return true
		}
	}
	return false
}

// CORS returns a middleware that answers preflight requests for the user API
// and marks responses to allowed origins as readable.
// Preflights asking for a method or header outside the allowed set get 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	origins := newOriginMatcher(cfg.AllowedOrigins)

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}
	maxAgeStr := strconv.Itoa(int(maxAge.Seconds()))
	methodsStr := strings.Join(corsAllowedMethods, ", ")
	headersStr := strings.Join(corsAllowedHeaders, ", ")
	exposedStr := strings.Join(corsExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if !origins.allows(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				// The browser blocks the response without CORS headers.
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)

			if !preflight {
				h.Set("Access-Control-Expose-Headers", exposedStr)
				next.ServeHTTP(w, r)
				return
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")

			if !methodAllowed(r.Header.Get("Access-Control-Request-Method")) ||
				!headersAllowed(r.Header.Get("Access-Control-Request-Headers")) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			h.Set("Access-Control-Allow-Methods", methodsStr)
			h.Set("Access-Control-Allow-Headers", headersStr)
			h.Set("Access-Control-Max-Age", maxAgeStr)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func methodAllowed(method string) bool {
	for _, m := range corsAllowedMethods {
		if method == m {
			return true
		}
	}
	return false
}

// headersAllowed checks a comma-separated Access-Control-Request-Headers value.
func headersAllowed(requested string) bool {
	for _, name := range strings.Split(requested, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ok := false
		for _, allowed := range corsAllowedHeaders {
			if strings.EqualFold(name, allowed) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

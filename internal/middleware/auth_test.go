package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdesk/userdesk/internal/auth"
	"github.com/userdesk/userdesk/internal/metrics"
	"github.com/userdesk/userdesk/internal/testutil"
)

func newAuthedHandler(t *testing.T) (http.Handler, *auth.GeneratedKey, *metrics.InMemoryRecorder) {
	t.Helper()

	key, err := auth.GenerateAPIKey(auth.EnvTest)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(key.Hash)
	require.NoError(t, err)

	rec := metrics.NewInMemory()
	mw := RequireAPIKey(AuthConfig{
		Logger:      testutil.DiscardLogger(),
		Verifier:    verifier,
		Metrics:     rec,
		MinDuration: time.Millisecond,
	})

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(auth.ActorFromContext(r.Context())))
	}))
	return h, key, rec
}

func TestRequireAPIKey(t *testing.T) {
	t.Parallel()

	h, key, _ := newAuthedHandler(t)
	other, err := auth.GenerateAPIKey(auth.EnvTest)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"x-api-key accepted", "X-API-Key", key.Plaintext, http.StatusOK},
		{"bearer accepted", "Authorization", "Bearer " + key.Plaintext, http.StatusOK},
		{"missing key", "", "", http.StatusUnauthorized},
		{"malformed key", "X-API-Key", "not-a-key", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", other.Plaintext, http.StatusUnauthorized},
		{"basic scheme ignored", "Authorization", "Basic " + key.Plaintext, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "key:"+key.Prefix, rec.Body.String())
			} else {
				assert.JSONEq(t, `{"error":"Invalid or missing API key","code":"UNAUTHORIZED"}`, rec.Body.String())
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireAPIKey_CountsFailures(t *testing.T) {
	t.Parallel()

	h, _, m := newAuthedHandler(t)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/users/x", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	assert.Equal(t, uint64(3), m.Snapshot().AuthFailed)
}

func TestRequireAPIKey_NilVerifierDisablesCheck(t *testing.T) {
	t.Parallel()

	h := RequireAPIKey(AuthConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(auth.ActorFromContext(r.Context())))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireAPIKey_MinDuration(t *testing.T) {
	t.Parallel()

	key, err := auth.GenerateAPIKey(auth.EnvTest)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(key.Hash)
	require.NoError(t, err)

	h := RequireAPIKey(AuthConfig{
		Logger:      testutil.DiscardLogger(),
		Verifier:    verifier,
		MinDuration: 50 * time.Millisecond,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	start := time.Now()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/userdesk/userdesk/internal/cache"
	"github.com/userdesk/userdesk/internal/model"
	"github.com/userdesk/userdesk/internal/store"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BufferLogger returns a JSON logger writing into the returned buffer.
func BufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// NewRedisCache starts an in-process Redis and returns a connected cache.
// Both are closed when the test ends.
func NewRedisCache(t testing.TB) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := cache.New(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// SeedUsers adds n users with predictable fields and returns them in order.
func SeedUsers(s *store.UserStore, n int) []model.User {
	users := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, s.Create(model.UserFields{
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Hobby:     "reading",
		}))
	}
	return users
}

// Package store provides the in-memory user registry.
package store

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Option configures a UserStore.
type Option func(*UserStore)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *UserStore) {
		s.now = now
	}
}

// WithIDFunc overrides the identifier generator.
func WithIDFunc(newID func() string) Option {
	return func(s *UserStore) {
		s.newID = newID
	}
}

// NewID returns a ULID string: millisecond timestamp plus 80 random bits.
func NewID() string {
	return ulid.Make().String()
}

func defaultNow() time.Time {
	return time.Now().UTC()
}

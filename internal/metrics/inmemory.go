package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated      uint64
	UsersUpdated      uint64
	UsersDeleted      uint64
	UserLookupsMissed uint64
	ValidationFailed  uint64
	RateLimited       uint64
	AuthFailed        uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated      atomic.Uint64
	usersUpdated      atomic.Uint64
	usersDeleted      atomic.Uint64
	userLookupsMissed atomic.Uint64
	validationFailed  atomic.Uint64
	rateLimited       atomic.Uint64
	authFailed        atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:      m.usersCreated.Load(),
		UsersUpdated:      m.usersUpdated.Load(),
		UsersDeleted:      m.usersDeleted.Load(),
		UserLookupsMissed: m.userLookupsMissed.Load(),
		ValidationFailed:  m.validationFailed.Load(),
		RateLimited:       m.rateLimited.Load(),
		AuthFailed:        m.authFailed.Load(),
	}
}

// IncUserCreated increments the created counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserUpdated increments the updated counter.
func (m *InMemoryRecorder) IncUserUpdated() { m.usersUpdated.Add(1) }

// IncUserDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncUserNotFound increments the missed lookup counter.
func (m *InMemoryRecorder) IncUserNotFound() { m.userLookupsMissed.Add(1) }

// IncValidationFailed increments the validation failure counter.
func (m *InMemoryRecorder) IncValidationFailed() { m.validationFailed.Add(1) }

// IncRateLimited increments the rejected-by-rate-limit counter.
func (m *InMemoryRecorder) IncRateLimited() { m.rateLimited.Add(1) }

// IncAuthFailed increments the failed authentication counter.
func (m *InMemoryRecorder) IncAuthFailed() { m.authFailed.Add(1) }

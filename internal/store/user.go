package store

import (
	"sync"
	"time"

	"github.com/userdesk/userdesk/internal/model"
)

// UserStore owns an insertion-ordered collection of users.
// Every result is a copy; callers never alias stored records.
type UserStore struct {
	mu    sync.RWMutex
	users []model.User
	now   func() time.Time
	newID func() string
}

// New creates an empty UserStore.
func New(opts ...Option) *UserStore {
	s := &UserStore{
		users: make([]model.User, 0, 16),
		now:   defaultNow,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns an ID and creation time, appends the user and returns it.
// Duplicate names or emails are allowed.
func (s *UserStore) Create(fields model.UserFields) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := model.User{
		ID:        s.newID(),
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Email:     fields.Email,
		Hobby:     fields.Hobby,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, user)

	return user
}

// List returns a snapshot of all users in insertion order.
func (s *UserStore) List() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// Get returns the user with the given ID. The bool is false if none matches.
func (s *UserStore) Get(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, false
	}
	return s.users[i], true
}

// Update merges patch onto the user with the given ID and returns the result.
// The bool is false, and nothing changes, if no user matches.
func (s *UserStore) Update(id string, patch model.UserPatch) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, false
	}
	s.users[i] = patch.Apply(s.users[i])
	return s.users[i], true
}

// Delete removes the first user with the given ID and reports whether one was removed.
func (s *UserStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return true
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// indexOf is a linear scan; callers must hold mu.
func (s *UserStore) indexOf(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

package memstore

// Package memstore provides the in-memory stores backing the portal's
// data surfaces. Persistence is deliberately out of scope: everything is
// seeded from fixtures at startup and lives for the process lifetime.

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sva-utd/portal-api/internal/domain/model"
)

// ErrNotFound is returned when a record does not exist.
type notFoundError struct{}

func (notFoundError) Error() string { return "memstore: not found" }

var ErrNotFound error = notFoundError{}

// ErrDuplicateEmail is returned when creating a user whose email is taken.
var ErrDuplicateEmail = errors.New("memstore: email already registered")

// Users is a thread-safe in-memory user store.
type Users struct {
	mu    sync.RWMutex
	users []model.User
	now   func() time.Time
}

// NewUsers builds a store seeded with the given users.
func NewUsers(seed []model.User) *Users {
	return &Users{
		users: append([]model.User(nil), seed...),
		now:   time.Now,
	}
}

// List returns a copy of all users.
func (s *Users) List() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.User(nil), s.users...)
}

// ByID returns the user with the given ID.
func (s *Users) ByID(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// ByEmail returns the user with the given email, compared case-insensitively.
func (s *Users) ByEmail(email string) (model.User, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.ToLower(u.Email) == needle {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// Create adds a new user. A missing ID is filled with a fresh UUID.
func (s *Users) Create(u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if strings.ToLower(existing.Email) == needle {
			return model.User{}, ErrDuplicateEmail
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users = append(s.users, u)
	return u, nil
}

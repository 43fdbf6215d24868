package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sva-utd/portal-api/internal/domain/model"
)

// Events is a thread-safe in-memory event store.
type Events struct {
	mu     sync.RWMutex
	events []model.Event
	now    func() time.Time
}

// NewEvents builds a store seeded with the given events.
func NewEvents(seed []model.Event) *Events {
	return &Events{
		events: append([]model.Event(nil), seed...),
		now:    time.Now,
	}
}

// List returns a copy of all events.
func (s *Events) List() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Event(nil), s.events...)
}

// ByID returns the event with the given ID.
func (s *Events) ByID(id string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, ErrNotFound
}

// Create adds a new event. A missing ID is filled with a fresh UUID.
func (s *Events) Create(e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := s.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.events = append(s.events, e)
	return e, nil
}

// Update replaces the event with the same ID.
func (s *Events) Update(e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.events {
		if existing.ID == e.ID {
			e.CreatedAt = existing.CreatedAt
			e.UpdatedAt = s.now()
			s.events[i] = e
			return e, nil
		}
	}
	return model.Event{}, ErrNotFound
}

// Delete removes the event with the given ID.
func (s *Events) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.events {
		if existing.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

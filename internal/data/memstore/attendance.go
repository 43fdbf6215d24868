package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sva-utd/portal-api/internal/domain/model"
)

// Attendance is a thread-safe in-memory event attendance store.
type Attendance struct {
	mu      sync.RWMutex
	records []model.EventAttendance
	now     func() time.Time
}

// NewAttendance builds a store seeded with the given records.
func NewAttendance(seed []model.EventAttendance) *Attendance {
	return &Attendance{
		records: append([]model.EventAttendance(nil), seed...),
		now:     time.Now,
	}
}

// ListByEvent returns all attendance records for one event.
func (s *Attendance) ListByEvent(eventID string) []model.EventAttendance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EventAttendance, 0)
	for _, a := range s.records {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out
}

// ListByUser returns all attendance records for one user.
func (s *Attendance) ListByUser(userID string) []model.EventAttendance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EventAttendance, 0)
	for _, a := range s.records {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

// ByEventAndUser returns the record linking one user to one event.
func (s *Attendance) ByEventAndUser(eventID, userID string) (model.EventAttendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.records {
		if a.EventID == eventID && a.UserID == userID {
			return a, nil
		}
	}
	return model.EventAttendance{}, ErrNotFound
}

// Create adds a new attendance record. A missing ID is filled with a fresh
// UUID.
func (s *Attendance) Create(a model.EventAttendance) (model.EventAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.records = append(s.records, a)
	return a, nil
}

// Update replaces the record with the same ID.
func (s *Attendance) Update(a model.EventAttendance) (model.EventAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.ID == a.ID {
			a.CreatedAt = existing.CreatedAt
			a.UpdatedAt = s.now()
			s.records[i] = a
			return a, nil
		}
	}
	return model.EventAttendance{}, ErrNotFound
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sva-utd/portal-api/internal/data/memstore"
	"github.com/sva-utd/portal-api/internal/domain/model"
)

// EventRepository is the event storage the event service depends on.
type EventRepository interface {
	List() []model.Event
	ByID(id string) (model.Event, error)
	Create(e model.Event) (model.Event, error)
	Update(e model.Event) (model.Event, error)
	Delete(id string) error
}

// AttendanceRepository is the attendance storage the event service depends
// on.
type AttendanceRepository interface {
	ListByEvent(eventID string) []model.EventAttendance
	ListByUser(userID string) []model.EventAttendance
	ByEventAndUser(eventID, userID string) (model.EventAttendance, error)
	Create(a model.EventAttendance) (model.EventAttendance, error)
	Update(a model.EventAttendance) (model.EventAttendance, error)
}

// ErrAlreadyRegistered is returned by Register for an active registration.
var ErrAlreadyRegistered = errors.New("already registered for event")

// ErrEventFull is returned by Register when the event is at capacity.
var ErrEventFull = errors.New("event is at capacity")

// EventFilter narrows an event listing.
type EventFilter struct {
	// Category keeps only events of one category when set.
	Category model.EventCategory
	// UpcomingOnly drops events that already started.
	UpcomingOnly bool
}

// EventServiceOptions groups dependencies for EventService.
type EventServiceOptions struct {
	Events     EventRepository
	Attendance AttendanceRepository
	Clock      func() time.Time
}

// EventService serves the public event calendar, member registration, and
// the admin CRUD surface.
type EventService struct {
	events     EventRepository
	attendance AttendanceRepository
	now        func() time.Time
}

// NewEventService constructs a new EventService.
func NewEventService(opts EventServiceOptions) *EventService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &EventService{events: opts.Events, attendance: opts.Attendance, now: opts.Clock}
}

// List returns events matching the filter, soonest first.
func (s *EventService) List(_ context.Context, filter EventFilter) []model.Event {
	now := s.now()
	events := make([]model.Event, 0)
	for _, e := range s.events.List() {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.UpcomingOnly && e.StartsAt.Before(now) {
			continue
		}
		events = append(events, e)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events
}

// Get returns one event.
func (s *EventService) Get(_ context.Context, id string) (model.Event, error) {
	e, err := s.events.ByID(id)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, fmt.Errorf("load event: %w", err)
	}
	return e, nil
}

func validateEvent(e model.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("title is required and cannot be empty")
	}
	if !e.Category.Valid() {
		return errors.New("category must be one of: VOLUNTEERING, SOCIAL, PROFESSIONAL_DEVELOPMENT")
	}
	if e.StartsAt.IsZero() {
		return errors.New("startsAt is required and cannot be empty")
	}
	if e.Capacity < 0 {
		return errors.New("capacity must be non-negative")
	}
	return nil
}

// Create adds a new event.
func (s *EventService) Create(_ context.Context, e model.Event) (model.Event, error) {
	if err := validateEvent(e); err != nil {
		return model.Event{}, err
	}
	created, err := s.events.Create(e)
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Update replaces an existing event.
func (s *EventService) Update(_ context.Context, e model.Event) (model.Event, error) {
	if err := validateEvent(e); err != nil {
		return model.Event{}, err
	}
	updated, err := s.events.Update(e)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// Register records the user as REGISTERED for the event. A previously
// canceled registration is reactivated instead of duplicated.
func (s *EventService) Register(ctx context.Context, eventID, userID string) (model.EventAttendance, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return model.EventAttendance{}, err
	}

	existing, err := s.attendance.ByEventAndUser(eventID, userID)
	switch {
	case err == nil && existing.Status != model.AttendanceCanceled:
		return model.EventAttendance{}, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, memstore.ErrNotFound):
		return model.EventAttendance{}, fmt.Errorf("load registration: %w", err)
	}

	if event.Capacity > 0 && s.activeCount(eventID) >= event.Capacity {
		return model.EventAttendance{}, ErrEventFull
	}

	if err == nil {
		existing.Status = model.AttendanceRegistered
		existing.RegisteredAt = s.now()
		reactivated, uerr := s.attendance.Update(existing)
		if uerr != nil {
			return model.EventAttendance{}, fmt.Errorf("reactivate registration: %w", uerr)
		}
		return reactivated, nil
	}

	created, err := s.attendance.Create(model.EventAttendance{
		EventID:      eventID,
		UserID:       userID,
		Status:       model.AttendanceRegistered,
		RegisteredAt: s.now(),
	})
	if err != nil {
		return model.EventAttendance{}, fmt.Errorf("create registration: %w", err)
	}
	return created, nil
}

// CancelRegistration marks the user's registration CANCELED. Missing
// registrations report ErrNotFound.
func (s *EventService) CancelRegistration(_ context.Context, eventID, userID string) error {
	existing, err := s.attendance.ByEventAndUser(eventID, userID)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load registration: %w", err)
	}
	if existing.Status == model.AttendanceCanceled {
		return ErrNotFound
	}

	existing.Status = model.AttendanceCanceled
	if _, err := s.attendance.Update(existing); err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	return nil
}

// activeCount counts non-canceled registrations for an event.
func (s *EventService) activeCount(eventID string) int {
	n := 0
	for _, a := range s.attendance.ListByEvent(eventID) {
		if a.Status != model.AttendanceCanceled {
			n++
		}
	}
	return n
}

// Delete removes an event.
func (s *EventService) Delete(_ context.Context, id string) error {
	if err := s.events.Delete(id); err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sva-utd/portal-api/internal/domain/model"
	"github.com/sva-utd/portal-api/internal/service"
)

// EventsAPI is the slice of the event service the HTTP handlers use.
type EventsAPI interface {
	List(ctx context.Context, filter service.EventFilter) []model.Event
	Get(ctx context.Context, id string) (model.Event, error)
	Register(ctx context.Context, eventID, userID string) (model.EventAttendance, error)
	CancelRegistration(ctx context.Context, eventID, userID string) error
	Create(ctx context.Context, e model.Event) (model.Event, error)
	Update(ctx context.Context, e model.Event) (model.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventHandlers provides HTTP handlers for the event calendar. Reads are
// public; writes sit behind the admin middleware at the routing layer.
type EventHandlers struct {
	Svc EventsAPI
}

// List returns events, optionally filtered.
// GET /api/events?category=<category>&upcoming=true.
func (h *EventHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter := service.EventFilter{
		UpcomingOnly: strings.EqualFold(r.URL.Query().Get("upcoming"), "true"),
	}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter.Category = model.EventCategory(strings.ToUpper(cat))
		if !filter.Category.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_category",
				Err:     errors.New("category must be one of: VOLUNTEERING, SOCIAL, PROFESSIONAL_DEVELOPMENT"),
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"events": h.Svc.List(r.Context(), filter)})
}

// Get returns a single event.
// GET /api/events/{id}.
func (h *EventHandlers) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "event_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "event_load_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"event": event})
}

// Register signs the caller up for an event.
// POST /api/events/{id}/register.
func (h *EventHandlers) Register(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errors.New("authentication required")})
		return
	}

	attendance, err := h.Svc.Register(r.Context(), r.PathValue("id"), claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "event_not_found", Err: err})
		case errors.Is(err, service.ErrAlreadyRegistered):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "already_registered", Err: err})
		case errors.Is(err, service.ErrEventFull):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "event_full", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "registration_failed", Err: err})
		}
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"attendance": attendance})
}

// CancelRegistration withdraws the caller's event registration.
// DELETE /api/events/{id}/register.
func (h *EventHandlers) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errors.New("authentication required")})
		return
	}

	if err := h.Svc.CancelRegistration(r.Context(), r.PathValue("id"), claims.Subject); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "registration_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "cancellation_failed", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Create adds a new event.
// POST /api/admin/events.
func (h *EventHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var event model.Event
	if !DecodeJSON(w, r, &event) {
		return
	}

	created, err := h.Svc.Create(r.Context(), event)
	if err != nil {
		writeEventError(w, err, "event_create_failed")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"event": created})
}

// Update replaces an existing event.
// PUT /api/admin/events/{id}.
func (h *EventHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var event model.Event
	if !DecodeJSON(w, r, &event) {
		return
	}
	event.ID = r.PathValue("id")

	updated, err := h.Svc.Update(r.Context(), event)
	if err != nil {
		writeEventError(w, err, "event_update_failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"event": updated})
}

// Delete removes an event.
// DELETE /api/admin/events/{id}.
func (h *EventHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeEventError(w, err, "event_delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeEventError maps service errors from event writes onto the JSON
// error envelope.
func writeEventError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "event_not_found", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_event", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: fallback, Err: err})
	}
}

package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/sva-utd/portal-api/internal/domain/model"
	"github.com/sva-utd/portal-api/internal/service"
)

// MembersAPI is the slice of the member service the HTTP handlers use.
type MembersAPI interface {
	Ranked(ctx context.Context) []model.UserWithPoints
	Profile(ctx context.Context, userID string) (model.UserWithPoints, error)
	Adjust(ctx context.Context, in service.AdjustInput) (model.PointsTransaction, error)
}

// MemberHandlers provides HTTP handlers for the member roster and
// profiles. All routes here sit behind the auth middleware.
type MemberHandlers struct {
	Svc MembersAPI
}

// List returns the roster with points, admins first then points descending.
// GET /api/members.
func (h *MemberHandlers) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"members": h.Svc.Ranked(r.Context())})
}

// Get returns one member's profile with their points summary.
// GET /api/members/{id}.
func (h *MemberHandlers) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.Svc.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "member_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "member_load_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"member": member})
}

// Profile returns the calling member's own profile. The identity comes
// from the auth middleware, never from the URL.
// GET /api/profile.
func (h *MemberHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	member, err := h.Svc.Profile(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "member_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "member_load_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"member": member})
}

type adjustRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note,omitempty"`
}

// Adjust records an admin points adjustment for a member.
// POST /api/admin/members/{id}/points.
func (h *MemberHandlers) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tx, err := h.Svc.Adjust(r.Context(), service.AdjustInput{
		UserID: r.PathValue("id"),
		Delta:  req.Delta,
		Note:   req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "member_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_adjustment", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "adjustment_failed", Err: err})
		}
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"transaction": tx})
}

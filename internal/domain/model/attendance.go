package model

import "time"

// AttendanceStatus tracks a member's relationship to an event.
type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "REGISTERED"
	AttendanceAttended   AttendanceStatus = "ATTENDED"
	AttendanceCanceled   AttendanceStatus = "CANCELED"
	AttendanceNoShow     AttendanceStatus = "NO_SHOW"
)

// EventAttendance links a user to an event, optionally tied to the points
// transaction their attendance produced.
type EventAttendance struct {
	ID      string           `json:"id"`
	EventID string           `json:"eventId"`
	UserID  string           `json:"userId"`
	Status  AttendanceStatus `json:"status"`

	PointsTransactionID string `json:"pointsTransactionId,omitempty"`

	RegisteredAt time.Time `json:"registeredAt,omitzero"`
	AttendedAt   time.Time `json:"attendedAt,omitzero"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

package model

import "time"

// PointsTransactionState is the lifecycle state of a points transaction.
// Only APPLIED deltas count toward a member's total; PENDING deltas are
// shown separately and REVOKED ones count toward nothing.
type PointsTransactionState string

const (
	PointsPending PointsTransactionState = "PENDING"
	PointsApplied PointsTransactionState = "APPLIED"
	PointsRevoked PointsTransactionState = "REVOKED"
)

// PointsSourceType records what produced a transaction.
type PointsSourceType string

const (
	SourceAttendance      PointsSourceType = "ATTENDANCE"
	SourceAdminAdjustment PointsSourceType = "ADMIN_ADJUSTMENT"
	SourceBonus           PointsSourceType = "BONUS"
	SourcePenalty         PointsSourceType = "PENALTY"
)

// PointsTransaction is a single signed points movement for a user.
type PointsTransaction struct {
	ID     string                 `json:"id"`
	UserID string                 `json:"userId"`
	Delta  int                    `json:"delta"` // positive adds, negative subtracts
	State  PointsTransactionState `json:"state"`

	SourceType PointsSourceType `json:"sourceType"`
	// SourceID references the record that produced the transaction
	// (attendance row, admin action, ...).
	SourceID string `json:"sourceId,omitempty"`
	Note     string `json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

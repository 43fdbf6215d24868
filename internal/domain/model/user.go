package model

// Package model contains the portal's domain value types. Shapes mirror the
// frontend's type contracts so JSON payloads line up field for field.

import (
	"time"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// UserStatus is the lifecycle state of a member account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusPending UserStatus = "PENDING"
)

// User is a portal member record.
// Password is plaintext by the mock-auth contract; it is never serialized.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	ProfileImage string     `json:"profileImage,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	Role         auth.Role  `json:"role"`
	SubRole      string     `json:"subRole,omitempty"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt,omitempty"`
}

// PointsSummary aggregates a user's points transactions.
type PointsSummary struct {
	PointsTotal   int `json:"pointsTotal"`   // sum of APPLIED deltas
	PointsPending int `json:"pointsPending"` // sum of PENDING deltas
}

// UserWithPoints is the UI-facing join of a user and their points summary.
type UserWithPoints struct {
	User
	PointsSummary
}

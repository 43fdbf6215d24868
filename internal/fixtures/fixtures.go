package fixtures

// Package fixtures seeds the in-memory stores with the portal's demo data.
// Plaintext passwords are the documented mock-auth contract; only accounts
// with a password can log in.

import (
	"time"

	"github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/domain/model"
)

// Users returns the seed member roster.
func Users() []model.User {
	return []model.User{
		{
			ID:         "mock_admin_1",
			Name:       "Dummy Admin",
			Email:      "admin@sva-utdallas.org",
			Password:   "Admin123!",
			IsVerified: true,
			Role:       auth.RoleAdmin,
			SubRole:    "PRESIDENT",
			Status:     model.UserStatusActive,
		},
		{
			ID:         "mock_user_1",
			Name:       "Dummy Member",
			Email:      "member@sva-utdallas.org",
			Password:   "Member123!",
			IsVerified: true,
			Role:       auth.RoleMember,
			Status:     model.UserStatusActive,
		},
		{
			ID:         "mock_user_2",
			Name:       "Member Two",
			Email:      "member2@sva-utdallas.org",
			IsVerified: true,
			Role:       auth.RoleMember,
			Status:     model.UserStatusActive,
		},
	}
}

// Events returns the seed event calendar, offset from now so the demo
// always has upcoming entries.
func Events() []model.Event {
	now := time.Now()
	return []model.Event{
		{
			ID:          "evt_001",
			Title:       "Campus Volunteer Outreach",
			Category:    model.EventVolunteering,
			StartsAt:    now.Add(3 * 24 * time.Hour),
			EndsAt:      now.Add(3*24*time.Hour + 90*time.Minute),
			Location:    "UT Dallas – Student Union",
			Capacity:    40,
			Description: "Volunteer service block supporting campus partners.",
		},
		{
			ID:          "evt_002",
			Title:       "SVA Social Night",
			Category:    model.EventSocial,
			StartsAt:    now.Add(7 * 24 * time.Hour),
			Location:    "Richardson – Community Lounge",
			Capacity:    60,
			Description: "Community-building event for members and supporters.",
		},
		{
			ID:          "evt_003",
			Title:       "Resume & Interview Workshop",
			Category:    model.EventProfessionalDevelopment,
			StartsAt:    now.Add(12 * 24 * time.Hour),
			Location:    "UT Dallas – ECSW 1.315",
			Capacity:    80,
			Description: "Resume reviews, interviewing, and readiness.",
		},
		{
			ID:          "evt_004",
			Title:       "Veterans Community Service Day",
			Category:    model.EventVolunteering,
			StartsAt:    now.Add(20 * 24 * time.Hour),
			Location:    "Dallas – Veterans Resource Center",
			Capacity:    50,
			Description: "Service day with local veteran organizations.",
		},
	}
}

// Attendance returns the seed event registrations. att_1 is the source of
// the pending attendance transaction in PointsTransactions.
func Attendance() []model.EventAttendance {
	now := time.Now()
	return []model.EventAttendance{
		{
			ID:                  "att_1",
			EventID:             "evt_001",
			UserID:              "mock_user_1",
			Status:              model.AttendanceRegistered,
			PointsTransactionID: "tx_3",
			RegisteredAt:        now,
		},
	}
}

// PointsTransactions returns the seed points ledger.
func PointsTransactions() []model.PointsTransaction {
	now := time.Now()
	return []model.PointsTransaction{
		{
			ID:         "tx_1",
			UserID:     "mock_admin_1",
			Delta:      500,
			State:      model.PointsApplied,
			SourceType: model.SourceAdminAdjustment,
			Note:       "Initial seed points",
			CreatedAt:  now,
		},
		{
			ID:         "tx_2",
			UserID:     "mock_user_1",
			Delta:      300,
			State:      model.PointsApplied,
			SourceType: model.SourceBonus,
			Note:       "Welcome bonus",
			CreatedAt:  now,
		},
		{
			ID:         "tx_3",
			UserID:     "mock_user_1",
			Delta:      20,
			State:      model.PointsPending,
			SourceType: model.SourceAttendance,
			SourceID:   "att_1",
			Note:       "Pending attendance points",
			CreatedAt:  now,
		},
		{
			ID:         "tx_4",
			UserID:     "mock_user_2",
			Delta:      150,
			State:      model.PointsApplied,
			SourceType: model.SourceBonus,
			Note:       "Welcome bonus",
			CreatedAt:  now,
		},
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sva-utd/portal-api/internal/data/memstore"
	"github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/domain/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by Signup for an already-registered email.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository is the user storage the member service depends on.
type UserRepository interface {
	List() []model.User
	ByID(id string) (model.User, error)
	Create(u model.User) (model.User, error)
}

// PointsRepository is the points ledger the member service depends on.
type PointsRepository interface {
	List() []model.PointsTransaction
	ListByUser(userID string) []model.PointsTransaction
	Append(tx model.PointsTransaction) (model.PointsTransaction, error)
}

// MemberServiceOptions groups dependencies for MemberService.
type MemberServiceOptions struct {
	Users  UserRepository
	Points PointsRepository
}

// MemberService serves the member roster, profiles, signup, and admin
// points adjustments.
type MemberService struct {
	users  UserRepository
	points PointsRepository
}

// NewMemberService constructs a new MemberService.
func NewMemberService(opts MemberServiceOptions) *MemberService {
	return &MemberService{users: opts.Users, points: opts.Points}
}

// Ranked returns the roster joined with points, admins first then points
// descending.
func (s *MemberService) Ranked(_ context.Context) []model.UserWithPoints {
	return Rank(s.users.List(), s.points.List())
}

// Profile returns one user with their points summary.
func (s *MemberService) Profile(_ context.Context, userID string) (model.UserWithPoints, error) {
	user, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return model.UserWithPoints{}, ErrNotFound
		}
		return model.UserWithPoints{}, fmt.Errorf("load user: %w", err)
	}
	return model.UserWithPoints{
		User:          user,
		PointsSummary: Summarize(userID, s.points.ListByUser(userID)),
	}, nil
}

// SignupInput carries a new-member registration.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the registration fields.
func (in SignupInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return errors.New("email must be a valid address")
	}
	if len(in.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// Signup registers a new PENDING member.
func (s *MemberService) Signup(_ context.Context, in SignupInput) (model.User, error) {
	if err := in.Validate(); err != nil {
		return model.User{}, err
	}

	user, err := s.users.Create(model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
		Role:     auth.RoleMember,
		Status:   model.UserStatusPending,
	})
	if err != nil {
		if errors.Is(err, memstore.ErrDuplicateEmail) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// AdjustInput carries an admin points adjustment.
type AdjustInput struct {
	UserID string
	Delta  int
	Note   string
}

// Adjust records an APPLIED admin adjustment transaction for the user.
func (s *MemberService) Adjust(_ context.Context, in AdjustInput) (model.PointsTransaction, error) {
	if in.Delta == 0 {
		return model.PointsTransaction{}, errors.New("delta must be non-zero")
	}
	if _, err := s.users.ByID(in.UserID); err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return model.PointsTransaction{}, ErrNotFound
		}
		return model.PointsTransaction{}, fmt.Errorf("load user: %w", err)
	}

	tx, err := s.points.Append(model.PointsTransaction{
		UserID:     in.UserID,
		Delta:      in.Delta,
		State:      model.PointsApplied,
		SourceType: model.SourceAdminAdjustment,
		Note:       in.Note,
	})
	if err != nil {
		return model.PointsTransaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return tx, nil
}

package bootstrap

import (
	"log/slog"

	"github.com/sva-utd/portal-api/config"
	"github.com/sva-utd/portal-api/internal/data/memstore"
	"github.com/sva-utd/portal-api/internal/fixtures"
	"github.com/sva-utd/portal-api/internal/ports"
	"github.com/sva-utd/portal-api/internal/service"
)

// Stores holds the in-memory data stores backing the portal.
type Stores struct {
	Users      *memstore.Users
	Events     *memstore.Events
	Points     *memstore.Points
	Attendance *memstore.Attendance
}

// NewStores creates the data stores. Dev mode seeds them with the demo
// fixtures; otherwise they start empty.
func NewStores(isDev bool) *Stores {
	if isDev {
		return &Stores{
			Users:      memstore.NewUsers(fixtures.Users()),
			Events:     memstore.NewEvents(fixtures.Events()),
			Points:     memstore.NewPoints(fixtures.PointsTransactions()),
			Attendance: memstore.NewAttendance(fixtures.Attendance()),
		}
	}
	return &Stores{
		Users:      memstore.NewUsers(nil),
		Events:     memstore.NewEvents(nil),
		Points:     memstore.NewPoints(nil),
		Attendance: memstore.NewAttendance(nil),
	}
}

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Members *service.MemberService
	Events  *service.EventService
}

// ServiceDeps contains dependencies for creating services.
type ServiceDeps struct {
	Config   *config.AppConfig
	Stores   *Stores
	Denylist ports.TokenDenylist
	Logger   *slog.Logger
}

// NewServices creates all application services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	authSvc, err := BuildAuthService(AuthDeps{
		Auth:     deps.Config.Auth,
		Users:    deps.Stores.Users,
		Denylist: deps.Denylist,
		Logger:   deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth: authSvc,
		Members: service.NewMemberService(service.MemberServiceOptions{
			Users:  deps.Stores.Users,
			Points: deps.Stores.Points,
		}),
		Events: service.NewEventService(service.EventServiceOptions{
			Events:     deps.Stores.Events,
			Attendance: deps.Stores.Attendance,
		}),
	}, nil
}

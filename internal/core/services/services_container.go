package services

import (
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/mbmkongo/caisse_management_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, hub events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Authz first since every mutating service depends on it.
	container.Authz = NewAuthzService(repos.UserRepo)
	container.Balance = NewBalanceService(repos.BalanceRepo)
	container.User = NewUserService(repos.UserRepo, container.Authz)
	container.Entry = NewEntryService(repos.EntryRepo, container.Authz, hub)
	container.Session = NewSessionService(repos.EntryRepo, repos.BalanceRepo, repos.UserRepo, container.Balance, container.Authz, hub)
	container.Closure = NewClosureService(repos.ClosureRepo, repos.BalanceRepo, repos.UserRepo, container.Balance, container.Authz, hub, cfg.SupervisorAccountID)

	return container
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
)

// authzService resolves an acting user to its role and answers capability
// checks. The reconciliation core calls Authorize at the top of every
// mutating operation; there is no ambient role state.
type authzService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewAuthzService creates a new capability-check service.
func NewAuthzService(userRepo portsrepo.UserRepositoryFacade) portssvc.AuthzSvcFacade {
	return &authzService{userRepo: userRepo}
}

var _ portssvc.AuthzSvcFacade = (*authzService)(nil)

// hasCapability encodes the role/capability matrix. Cashier roles (caissier,
// caissier1..5) all share the cashier grants.
func hasCapability(role domain.Role, capability domain.Capability) bool {
	if role == domain.RoleAdmin {
		return true
	}
	switch capability {
	case domain.CapRecordEntries:
		return role == domain.RoleRespCompta || role == domain.RoleLogistique || role.IsCashier()
	case domain.CapValidateEntries, domain.CapAssignOpening, domain.CapCloseSessions:
		return role == domain.RoleRespCompta
	case domain.CapManageUsers:
		return false
	}
	return false
}

// Authorize resolves the user and checks the capability. It returns the
// actor's role so callers can branch on it without a second lookup.
func (s *authzService) Authorize(ctx context.Context, userID string, capability domain.Capability) (domain.Role, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve acting user %s: %w", userID, err)
	}

	if !hasCapability(user.Role, capability) {
		logger.Warn("Capability check failed",
			slog.String("user_id", userID),
			slog.String("role", string(user.Role)),
			slog.String("capability", string(capability)))
		return "", apperrors.NewAppError(403, "role "+string(user.Role)+" lacks "+string(capability), apperrors.ErrForbidden)
	}

	return user.Role, nil
}

// AutoValidates reports whether entries created by the role skip the
// approval workflow and start directly in VALIDE.
func (s *authzService) AutoValidates(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleRespCompta
}

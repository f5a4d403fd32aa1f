package services

import (
	"context"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
)

// AuthzSvcFacade is the capability-check service the reconciliation core
// depends on instead of ambient role state. Authorize returns the actor's
// role on success, ErrForbidden when the role lacks the capability, and
// ErrNotFound for unknown actors.
type AuthzSvcFacade interface {
	Authorize(ctx context.Context, userID string, capability domain.Capability) (domain.Role, error)

	// AutoValidates reports whether entries created by the role skip the
	// approval workflow and start directly in VALIDE.
	AutoValidates(role domain.Role) bool
}

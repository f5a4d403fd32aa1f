package services

import (
	"context"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
)

// SessionSvcFacade manages the daily cash-session lifecycle up to closure.
type SessionSvcFacade interface {
	// AssignOpeningBalance upserts the starting balance and records the
	// mirroring RECETTE audit entry as one atomic operation. Supervisor only.
	AssignOpeningBalance(ctx context.Context, req dto.AssignOpeningRequest, supervisorUserID string) (*domain.StartingBalance, error)

	// GetSession projects the cashier's current session state and balances.
	GetSession(ctx context.Context, cashierID string, requestingUserID string) (*domain.Session, error)

	// TransferToSupervisor records a balanced TRF-OUT/TRF-IN pair moving part
	// of the acting cashier's balance to another account.
	TransferToSupervisor(ctx context.Context, req dto.TransferRequest, actorUserID string) (*dto.TransferResponse, error)
}

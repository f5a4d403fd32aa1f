package services

import (
	"context"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/dto"
)

// ClosureSvcFacade performs and reads end-of-day reconciliation.
type ClosureSvcFacade interface {
	// CloseSession runs the closing event for a cashier: gap analysis, one
	// ClosureTransfer record, the balanced transfer pair per non-zero
	// currency, and the starting-balance reset. Re-closing an already
	// reconciled day is a no-op.
	CloseSession(ctx context.Context, req dto.CloseSessionRequest, actorUserID string) (*dto.CloseSessionResponse, error)

	GetClosure(ctx context.Context, cashierID string, day time.Time, requestingUserID string) (*dto.ClosureResponse, error)

	ListClosures(ctx context.Context, limit int, nextToken *string, requestingUserID string) (*dto.ListClosuresResponse, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
)

// ClosureRepositoryFacade persists closing events. SaveClosure is the one
// write path and runs as a single serialized database transaction:
//
//  1. lock the cashier's starting-balance rows,
//  2. recompute the expected balances and compare them with the snapshot in
//     the closure (drift means a concurrent write: ErrConflict),
//  3. insert the closure row (unique per cashier and closing date, so a
//     double-close race surfaces as ErrConflict, never a second row),
//  4. insert the balanced transfer entries,
//  5. zero the starting balances.
type ClosureRepositoryFacade interface {
	SaveClosure(ctx context.Context, closure domain.ClosureTransfer, transferEntries []domain.LedgerEntry) error

	FindClosureByCashierAndDate(ctx context.Context, cashierID string, day time.Time) (*domain.ClosureTransfer, error)

	ListClosures(ctx context.Context, limit int, nextToken *string) ([]domain.ClosureTransfer, *string, error)
}

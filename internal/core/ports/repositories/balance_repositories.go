package repositories

import (
	"context"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSums carries the per-kind totals of validated entries for one
// (accountOwner, currency) pair.
type BalanceSums struct {
	Recette decimal.Decimal
	Depense decimal.Decimal
}

// BalanceRepositoryFacade reads and writes starting balances and aggregates
// the validated entry set. Balances themselves are never stored.
type BalanceRepositoryFacade interface {
	// GetStartingBalance returns zero when no row exists.
	GetStartingBalance(ctx context.Context, accountOwner string, currency domain.Currency) (decimal.Decimal, error)

	GetStartingBalances(ctx context.Context, accountOwner string) (map[domain.Currency]decimal.Decimal, error)

	// SumValidatedEntries totals VALIDE entries for the owner and currency up
	// to asOf (nil means now). Opening mirror entries count like any other
	// RECETTE; the starting-balance row is a snapshot for gap reporting and
	// never enters the sums.
	SumValidatedEntries(ctx context.Context, accountOwner string, currency domain.Currency, asOf *time.Time) (BalanceSums, error)

	// SaveOpening upserts the starting balance and inserts its mirroring
	// RECETTE audit entry in one database transaction.
	SaveOpening(ctx context.Context, balance domain.StartingBalance, entry domain.LedgerEntry) error
}

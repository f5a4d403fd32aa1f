package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	"github.com/mbmkongo/caisse_management_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const upsertStartingBalanceQuery = `
	INSERT INTO starting_balances (
		account_owner, account_role, currency, amount,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (account_owner, currency)
	DO UPDATE SET amount          = starting_balances.amount + EXCLUDED.amount,
	              account_role    = EXCLUDED.account_role,
	              last_updated_at = EXCLUDED.last_updated_at,
	              last_updated_by = EXCLUDED.last_updated_by;
`

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates a new repository for starting balances and
// balance aggregation.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// GetStartingBalance returns the starting balance for one (accountOwner,
// currency) pair. A missing row means zero, not an error.
func (r *PgxBalanceRepository) GetStartingBalance(ctx context.Context, accountOwner string, currency domain.Currency) (decimal.Decimal, error) {
	query := `
		SELECT amount
		FROM starting_balances
		WHERE account_owner = $1 AND currency = $2;
	`
	var amount decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, accountOwner, string(currency)).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to read starting balance for "+accountOwner, err)
	}
	return amount, nil
}

// GetStartingBalances returns all starting balances of an account owner,
// keyed by currency. Currencies with no row are absent from the map.
func (r *PgxBalanceRepository) GetStartingBalances(ctx context.Context, accountOwner string) (map[domain.Currency]decimal.Decimal, error) {
	query := `
		SELECT currency, amount
		FROM starting_balances
		WHERE account_owner = $1;
	`
	rows, err := r.Pool.Query(ctx, query, accountOwner)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query starting balances for "+accountOwner, err)
	}
	defer rows.Close()

	balances := make(map[domain.Currency]decimal.Decimal)
	for rows.Next() {
		var currency string
		var amount decimal.Decimal
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan starting balance row for "+accountOwner, err)
		}
		balances[domain.Currency(currency)] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating starting balance rows for "+accountOwner, err)
	}

	return balances, nil
}

// SumValidatedEntries totals VALIDE entries per kind for the owner and
// currency up to asOf. The ledger is the single source of the balance:
// opening mirror entries count like any other RECETTE, so the closure's
// full-balance DEPENSE nets the account to exactly zero. The
// starting_balances row is only a snapshot for gap reporting and never
// enters the sums.
func (r *PgxBalanceRepository) SumValidatedEntries(ctx context.Context, accountOwner string, currency domain.Currency, asOf *time.Time) (portsrepo.BalanceSums, error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE kind = 'RECETTE'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'DEPENSE'), 0)
		FROM ledger_entries
		WHERE account_owner = $1
		  AND currency = $2
		  AND status = 'VALIDE'
		  AND created_at <= $3;
	`
	cutoff := time.Now().UTC()
	if asOf != nil {
		cutoff = *asOf
	}

	var sums portsrepo.BalanceSums
	err := r.Pool.QueryRow(ctx, query, accountOwner, string(currency), cutoff).
		Scan(&sums.Recette, &sums.Depense)
	if err != nil {
		return portsrepo.BalanceSums{}, apperrors.NewAppError(500, "failed to sum validated entries for "+accountOwner, err)
	}
	return sums, nil
}

// SaveOpening upserts the starting balance and inserts its mirroring RECETTE
// entry within a DB transaction, so the snapshot row and the ledger can
// never disagree. Re-assigning an opening tops the snapshot up, matching the
// second mirror entry accumulating in the ledger.
func (r *PgxBalanceRepository) SaveOpening(ctx context.Context, balance domain.StartingBalance, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	modelBalance := mapping.ToModelStartingBalance(balance)
	_, err = tx.Exec(ctx, upsertStartingBalanceQuery,
		modelBalance.AccountOwner,
		modelBalance.AccountRole,
		modelBalance.Currency,
		modelBalance.Amount,
		modelBalance.CreatedAt,
		modelBalance.CreatedBy,
		modelBalance.LastUpdatedAt,
		modelBalance.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert starting balance for "+modelBalance.AccountOwner, err)
	}

	modelEntry := mapping.ToModelLedgerEntry(entry)
	if err := insertEntryTx(ctx, tx, modelEntry); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "opening entry "+modelEntry.EntryID+" already exists", apperrors.ErrConflict)
		}
		return apperrors.NewAppError(500, "failed to insert opening entry "+modelEntry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

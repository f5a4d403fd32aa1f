package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	"github.com/mbmkongo/caisse_management_app/internal/models"
	"github.com/mbmkongo/caisse_management_app/internal/utils/mapping"
	"github.com/mbmkongo/caisse_management_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const selectClosureColumns = `
	SELECT closure_id, cashier_id, cashier_role, closing_date,
	       opening_usd, opening_cdf, expected_usd, expected_cdf,
	       closing_usd, closing_cdf, transferred_usd, transferred_cdf,
	       gap_usd, gap_cdf, notes,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM closing_transfers
`

type PgxClosureRepository struct {
	BaseRepository
}

// newPgxClosureRepository creates a new repository for closing events.
func newPgxClosureRepository(pool *pgxpool.Pool) portsrepo.ClosureRepositoryFacade {
	return &PgxClosureRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClosureRepositoryFacade = (*PgxClosureRepository)(nil)

// SaveClosure persists one closing event as a single DB transaction: lock
// the cashier's starting balances, recheck the expected balances against the
// closure's snapshot, insert the closure row, insert the balanced transfer
// entries, then zero the starting balances. Any drift between the snapshot
// and the in-transaction recomputation means a concurrent write slipped in
// between preview and commit, and the closure must be retried from a fresh
// read.
func (r *PgxClosureRepository) SaveClosure(ctx context.Context, closure domain.ClosureTransfer, transferEntries []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	// 1. Lock the cashier's starting-balance rows for the duration of the
	// transaction. Concurrent opening assignments, transfers and closures
	// serialize here.
	if _, err := lockStartingBalancesTx(ctx, tx, closure.CashierID); err != nil {
		return err
	}

	// 2. Recompute expected balances inside the transaction and compare
	// against the snapshot the closure was built from.
	for _, currency := range domain.Currencies {
		expected, err := sumValidatedEntriesTx(ctx, tx, closure.CashierID, currency)
		if err != nil {
			return err
		}
		if !expected.Equal(closure.ByCurrency(currency).Expected) {
			return apperrors.NewAppError(409,
				"balance of "+closure.CashierID+" ("+string(currency)+") changed since the closure was computed",
				apperrors.ErrConflict)
		}
	}

	// 3. Insert the closure row. The unique (cashier_id, closing_date)
	// constraint turns a double-close race into ErrConflict, never a
	// second row.
	m := mapping.ToModelClosureTransfer(closure)
	closureQuery := `
		INSERT INTO closing_transfers (
			closure_id, cashier_id, cashier_role, closing_date,
			opening_usd, opening_cdf, expected_usd, expected_cdf,
			closing_usd, closing_cdf, transferred_usd, transferred_cdf,
			gap_usd, gap_cdf, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, closureQuery,
		m.ClosureID,
		m.CashierID,
		m.CashierRole,
		m.ClosingDate,
		m.OpeningUSD,
		m.OpeningCDF,
		m.ExpectedUSD,
		m.ExpectedCDF,
		m.ClosingUSD,
		m.ClosingCDF,
		m.TransferredUSD,
		m.TransferredCDF,
		m.GapUSD,
		m.GapCDF,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "cashier "+m.CashierID+" already closed on "+m.ClosingDate.Format("2006-01-02"), apperrors.ErrConflict)
		}
		return apperrors.NewAppError(500, "failed to insert closure "+m.ClosureID, err)
	}

	// 4. Insert the balanced transfer entries (one DEPENSE/RECETTE pair per
	// currency with a non-zero expected balance).
	for _, entry := range transferEntries {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		if err := insertEntryTx(ctx, tx, modelEntry); err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewAppError(409, "transfer entry "+modelEntry.EntryID+" already exists", apperrors.ErrConflict)
			}
			return apperrors.NewAppError(500, "failed to insert transfer entry "+modelEntry.EntryID, err)
		}
	}

	// 5. Reset the starting-balance snapshots. The transfer entries already
	// netted the ledger to zero; the snapshot just starts the next session's
	// opening tally from zero.
	zeroQuery := `
		UPDATE starting_balances
		SET amount = 0,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE account_owner = $1;
	`
	_, err = tx.Exec(ctx, zeroQuery, closure.CashierID, closure.LastUpdatedAt, closure.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reset starting balances for "+closure.CashierID, err)
	}

	return r.Commit(ctx, tx)
}

// lockStartingBalancesTx reads the cashier's starting balances FOR UPDATE.
// Currencies with no row come back as zero.
func lockStartingBalancesTx(ctx context.Context, tx pgx.Tx, accountOwner string) (map[domain.Currency]decimal.Decimal, error) {
	query := `
		SELECT currency, amount
		FROM starting_balances
		WHERE account_owner = $1
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountOwner)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock starting balances for "+accountOwner, err)
	}
	defer rows.Close()

	balances := map[domain.Currency]decimal.Decimal{}
	for _, currency := range domain.Currencies {
		balances[currency] = decimal.Zero
	}
	for rows.Next() {
		var currency string
		var amount decimal.Decimal
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked starting balance for "+accountOwner, err)
		}
		balances[domain.Currency(currency)] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked starting balances for "+accountOwner, err)
	}
	return balances, nil
}

// sumValidatedEntriesTx is the in-transaction form of the balance
// aggregation: the net of all VALIDE entries, opening mirrors included.
func sumValidatedEntriesTx(ctx context.Context, tx pgx.Tx, accountOwner string, currency domain.Currency) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'RECETTE' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE account_owner = $1
		  AND currency = $2
		  AND status = 'VALIDE';
	`
	var net decimal.Decimal
	err := tx.QueryRow(ctx, query, accountOwner, string(currency)).Scan(&net)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to recompute balance for "+accountOwner, err)
	}
	return net, nil
}

// FindClosureByCashierAndDate retrieves the closure recorded for a cashier
// on the given calendar day.
func (r *PgxClosureRepository) FindClosureByCashierAndDate(ctx context.Context, cashierID string, day time.Time) (*domain.ClosureTransfer, error) {
	query := selectClosureColumns + ` WHERE cashier_id = $1 AND closing_date = $2;`

	m, err := scanClosure(r.Pool.QueryRow(ctx, query, cashierID, day.UTC().Truncate(24*time.Hour)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find closure for cashier "+cashierID, err)
	}

	domainClosure := mapping.ToDomainClosureTransfer(m)
	return &domainClosure, nil
}

// ListClosures retrieves a paginated list of closures, newest first.
func (r *PgxClosureRepository) ListClosures(ctx context.Context, limit int, nextToken *string) ([]domain.ClosureTransfer, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	orderByClause := `ORDER BY created_at DESC, closure_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastClosureID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastClosureID, fetchLimit)
		query := selectClosureColumns + ` WHERE (created_at, closure_id) < ($1, $2) ` + orderByClause + ` LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		args = append(args, fetchLimit)
		query := selectClosureColumns + " " + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)) + `;`
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query closures", err)
	}
	defer rows.Close()

	modelClosures := make([]models.ClosureTransfer, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanClosure(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan closure row", scanErr)
		}
		modelClosures = append(modelClosures, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating closure rows", err)
	}

	var nextTokenVal *string
	results := modelClosures
	if len(modelClosures) > limit {
		lastClosure := modelClosures[limit-1]
		token := pagination.EncodeToken(lastClosure.CreatedAt, lastClosure.ClosureID)
		nextTokenVal = &token
		results = modelClosures[:limit]
	}

	domainClosures := make([]domain.ClosureTransfer, len(results))
	for i, m := range results {
		domainClosures[i] = mapping.ToDomainClosureTransfer(m)
	}
	return domainClosures, nextTokenVal, nil
}

// scanClosure scans one closing_transfers row in selectClosureColumns order.
func scanClosure(row pgx.Row) (models.ClosureTransfer, error) {
	var m models.ClosureTransfer
	err := row.Scan(
		&m.ClosureID,
		&m.CashierID,
		&m.CashierRole,
		&m.ClosingDate,
		&m.OpeningUSD,
		&m.OpeningCDF,
		&m.ExpectedUSD,
		&m.ExpectedCDF,
		&m.ClosingUSD,
		&m.ClosingCDF,
		&m.TransferredUSD,
		&m.TransferredCDF,
		&m.GapUSD,
		&m.GapCDF,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

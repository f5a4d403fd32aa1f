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
	"github.com/mbmkongo/caisse_management_app/internal/utils/entryid"
	"github.com/mbmkongo/caisse_management_app/internal/utils/mapping"
	"github.com/mbmkongo/caisse_management_app/internal/utils/pagination"
)

const insertEntryQuery = `
	INSERT INTO ledger_entries (
		id, entry_id, kind, source, currency, amount, account_owner, status,
		client_name, motif,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

const selectEntryColumns = `
	SELECT id, entry_id, kind, source, currency, amount, account_owner, status,
	       client_name, motif,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM ledger_entries
`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for ledger entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

// SaveEntry inserts the entry. When idPrefix is non-empty the business entry
// ID is allocated from the per-(prefix, day) counter inside the same
// transaction as the insert, so a failed insert never burns a visible gap in
// the sequence and two concurrent inserts can never share an ID.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, idPrefix string) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	if idPrefix != "" {
		counter, err := nextCounter(ctx, tx, idPrefix, entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entry.EntryID = entryid.Daily(idPrefix, entry.CreatedAt, counter)
	}

	modelEntry := mapping.ToModelLedgerEntry(entry)
	if err := insertEntryTx(ctx, tx, modelEntry); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewAppError(409, "entry ID "+modelEntry.EntryID+" already exists", apperrors.ErrConflict)
		}
		return nil, apperrors.NewAppError(500, "failed to insert entry "+modelEntry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveEntryPair inserts a balanced two-sided transfer atomically. Either
// both rows land or neither does. The sender's balance is rechecked inside
// the transaction, behind the same starting-balance lock the closure takes,
// so two concurrent transfers cannot jointly overdraw the account.
func (r *PgxEntryRepository) SaveEntryPair(ctx context.Context, out domain.LedgerEntry, in domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockStartingBalancesTx(ctx, tx, out.AccountOwner); err != nil {
		return err
	}
	available, err := sumValidatedEntriesTx(ctx, tx, out.AccountOwner, out.Currency)
	if err != nil {
		return err
	}
	if available.LessThan(out.Amount) {
		return apperrors.NewAppError(409,
			"transfer of "+out.Amount.String()+" "+string(out.Currency)+" exceeds available balance "+available.String(),
			apperrors.ErrConflict)
	}

	if err := insertEntryPairTx(ctx, tx, out, in); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// insertEntryTx inserts one entry row using the transaction tx.
func insertEntryTx(ctx context.Context, tx pgx.Tx, m models.LedgerEntry) error {
	_, err := tx.Exec(ctx, insertEntryQuery,
		m.ID,
		m.EntryID,
		m.Kind,
		m.Source,
		m.Currency,
		m.Amount,
		m.AccountOwner,
		m.Status,
		m.ClientName,
		m.Motif,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return err
}

// insertEntryPairTx inserts both sides of a transfer within tx. Shared with
// the closure repository, whose transfer entries ride its own transaction.
func insertEntryPairTx(ctx context.Context, tx pgx.Tx, out, in domain.LedgerEntry) error {
	for _, entry := range []domain.LedgerEntry{out, in} {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		if err := insertEntryTx(ctx, tx, modelEntry); err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewAppError(409, "transfer entry "+modelEntry.EntryID+" already exists", apperrors.ErrConflict)
			}
			return apperrors.NewAppError(500, "failed to insert transfer entry "+modelEntry.EntryID, err)
		}
	}
	return nil
}

// FindEntryByID retrieves an entry by its business entry ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	query := selectEntryColumns + ` WHERE entry_id = $1;`

	var m models.LedgerEntry
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.EntryID,
		&m.Kind,
		&m.Source,
		&m.Currency,
		&m.Amount,
		&m.AccountOwner,
		&m.Status,
		&m.ClientName,
		&m.Motif,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+id, err)
	}

	domainEntry := mapping.ToDomainLedgerEntry(m)
	return &domainEntry, nil
}

// ListEntries retrieves a filtered, paginated list of entries using
// token-based keyset pagination. Ordering is newest first with the row ID as
// tie-breaker so the cursor is stable under concurrent inserts.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, params portsrepo.ListEntriesParams) ([]domain.LedgerEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	filterClause := `WHERE 1=1`
	args := []interface{}{}

	addFilter := func(clause string, value interface{}) {
		args = append(args, value)
		filterClause += " AND " + clause + "$" + strconv.Itoa(len(args))
	}

	if params.AccountOwner != nil {
		addFilter("account_owner = ", *params.AccountOwner)
	}
	if params.Status != nil {
		addFilter("status = ", string(*params.Status))
	}
	if params.Currency != nil {
		addFilter("currency = ", string(*params.Currency))
	}
	if params.From != nil {
		addFilter("created_at >= ", *params.From)
	}
	if params.To != nil {
		addFilter("created_at <= ", *params.To)
	}

	if params.NextToken != nil && *params.NextToken != "" {
		lastCreatedAt, lastRowID, decodeErr := pagination.DecodeToken(*params.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastRowID)
		filterClause += " AND (created_at, id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	orderByClause := `ORDER BY created_at DESC, id DESC`
	args = append(args, fetchLimit)
	query := selectEntryColumns + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.LedgerEntry
		scanErr := rows.Scan(
			&m.ID,
			&m.EntryID,
			&m.Kind,
			&m.Source,
			&m.Currency,
			&m.Amount,
			&m.AccountOwner,
			&m.Status,
			&m.ClientName,
			&m.Motif,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		lastEntry := modelEntries[limit-1]
		token := pagination.EncodeToken(lastEntry.CreatedAt, lastEntry.ID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}

// UpdateEntryStatus performs the guarded transition from -> to. The guard is
// part of the UPDATE predicate, so a lost race shows up as zero affected
// rows rather than a silently repeated transition.
func (r *PgxEntryRepository) UpdateEntryStatus(ctx context.Context, id string, from, to domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1 AND status = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, id, string(from), string(to), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing entry from one that already left the
		// expected status.
		if _, findErr := r.FindEntryByID(ctx, id); findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("entry " + id + " not found for status update")
			}
			return findErr
		}
		return apperrors.NewAppError(409, "entry "+id+" is not in status "+string(from), apperrors.ErrConflict)
	}

	return nil
}

package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
)

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so the counter
// allocation can run standalone or inside an entry-insert transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxCounterRepository struct {
	BaseRepository
}

// newPgxCounterRepository creates a new repository for entry-ID counters.
func newPgxCounterRepository(pool *pgxpool.Pool) portsrepo.CounterRepositoryFacade {
	return &PgxCounterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CounterRepositoryFacade = (*PgxCounterRepository)(nil)

// nextCounter atomically increments and returns the counter for the given
// (prefix, day). The upsert is a single statement, so two concurrent callers
// can never observe the same value; there is no read-then-write window.
func nextCounter(ctx context.Context, q rowQuerier, prefix string, day time.Time) (int64, error) {
	query := `
		INSERT INTO entry_counters (prefix, day, counter)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, day)
		DO UPDATE SET counter = entry_counters.counter + 1
		RETURNING counter;
	`
	var counter int64
	err := q.QueryRow(ctx, query, prefix, day.UTC().Truncate(24*time.Hour)).Scan(&counter)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate counter for prefix "+prefix, err)
	}
	return counter, nil
}

// NextCounter allocates the next value of the per-(prefix, day) counter.
func (r *PgxCounterRepository) NextCounter(ctx context.Context, prefix string, day time.Time) (int64, error) {
	return nextCounter(ctx, r.Pool, prefix, day)
}

package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	entryRepo := newPgxEntryRepository(dbPool)
	counterRepo := newPgxCounterRepository(dbPool)
	balanceRepo := newPgxBalanceRepository(dbPool)
	closureRepo := newPgxClosureRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		EntryRepo:   entryRepo,
		CounterRepo: counterRepo,
		BalanceRepo: balanceRepo,
		ClosureRepo: closureRepo,
		UserRepo:    userRepo,
	}
}

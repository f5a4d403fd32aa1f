package repositories

import (
	"context"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
)

// ListEntriesParams narrows a ledger listing. Nil filters are ignored.
type ListEntriesParams struct {
	AccountOwner *string
	Status       *domain.EntryStatus
	Currency     *domain.Currency
	From         *time.Time
	To           *time.Time
	Limit        int
	NextToken    *string
}

// EntryRepositoryFacade persists ledger entries. Entries are append-only;
// the only permitted update is the bounded status transition.
type EntryRepositoryFacade interface {
	// SaveEntry inserts the entry. When idPrefix is non-empty the business
	// entry ID is allocated from the per-(prefix, day) counter and the
	// allocation and insert happen in one database transaction.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry, idPrefix string) (*domain.LedgerEntry, error)

	// SaveEntryPair inserts a balanced two-sided transfer (DEPENSE out,
	// RECETTE in) atomically. Either both rows land or neither does.
	SaveEntryPair(ctx context.Context, out domain.LedgerEntry, in domain.LedgerEntry) error

	FindEntryByID(ctx context.Context, id string) (*domain.LedgerEntry, error)

	ListEntries(ctx context.Context, params ListEntriesParams) ([]domain.LedgerEntry, *string, error)

	// UpdateEntryStatus performs the guarded transition from -> to. It fails
	// with ErrConflict when the entry is no longer in the from status and
	// with ErrNotFound when no such entry exists.
	UpdateEntryStatus(ctx context.Context, id string, from, to domain.EntryStatus, updatedBy string, updatedAt time.Time) error
}

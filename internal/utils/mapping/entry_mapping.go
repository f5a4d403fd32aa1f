package mapping

import (
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/models"
)

// ToModelLedgerEntry converts a domain ledger entry to its row form.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		ID:           d.ID,
		EntryID:      d.EntryID,
		Kind:         models.EntryKind(d.Kind),
		Source:       string(d.Source),
		Currency:     string(d.Currency),
		Amount:       d.Amount,
		AccountOwner: d.AccountOwner,
		Status:       models.EntryStatus(d.Status),
		ClientName:   d.ClientName,
		Motif:        d.Motif,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a row to its domain form.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:           m.ID,
		EntryID:      m.EntryID,
		Kind:         domain.EntryKind(m.Kind),
		Source:       domain.EntrySource(m.Source),
		Currency:     domain.Currency(m.Currency),
		Amount:       m.Amount,
		AccountOwner: m.AccountOwner,
		Status:       domain.EntryStatus(m.Status),
		ClientName:   m.ClientName,
		Motif:        m.Motif,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of rows to domain entries.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}

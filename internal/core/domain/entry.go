package domain

import "github.com/shopspring/decimal"

// EntryKind indicates the direction of a ledger entry. The amount is always
// positive; the sign of the movement is derived solely from the kind.
type EntryKind string

const (
	Recette EntryKind = "RECETTE" // credit
	Depense EntryKind = "DEPENSE" // debit
)

// EntrySource tags the module that originated an entry. It drives the
// business entry-ID prefix but never the sign convention.
type EntrySource string

const (
	SourceComptabilite EntrySource = "COMPTABILITE"
	SourceLogistique   EntrySource = "LOGISTIQUE"
)

// EntryStatus is the approval state of a ledger entry. Only validated
// entries participate in balance computation.
type EntryStatus string

const (
	Enregistre EntryStatus = "ENREGISTRE" // recorded, pending approval
	Valide     EntryStatus = "VALIDE"     // validated, counts toward balance
	Rejete     EntryStatus = "REJETE"     // rejected, excluded
)

// LedgerEntry represents a single immutable monetary movement. Once created,
// only the bounded status transition ENREGISTRE -> {VALIDE, REJETE} is a
// legal mutation; corrections are made via new offsetting entries.
type LedgerEntry struct {
	ID           string          `json:"id"`      // Primary Key (UUID)
	EntryID      string          `json:"entryID"` // Business identifier, e.g. ACHAM-20250131-003
	Kind         EntryKind       `json:"kind"`
	Source       EntrySource     `json:"source"`
	Currency     Currency        `json:"currency"`
	Amount       decimal.Decimal `json:"amount"` // Absolute magnitude, always > 0
	AccountOwner string          `json:"accountOwner"`
	Status       EntryStatus     `json:"status"`
	ClientName   string          `json:"clientName"` // Free text, not used in computation
	Motif        string          `json:"motif"`      // Free text, not used in computation
	AuditFields
}

// SignedAmount returns the amount with the sign implied by the entry kind.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == Depense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Resolved reports whether the entry has reached a terminal approval state.
func (e LedgerEntry) Resolved() bool {
	return e.Status == Valide || e.Status == Rejete
}

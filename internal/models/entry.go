package models

import "github.com/shopspring/decimal"

// EntryKind indicates the direction of a ledger entry row.
type EntryKind string

const (
	Recette EntryKind = "RECETTE"
	Depense EntryKind = "DEPENSE"
)

// EntryStatus is the approval state column of a ledger entry row.
type EntryStatus string

const (
	Enregistre EntryStatus = "ENREGISTRE"
	Valide     EntryStatus = "VALIDE"
	Rejete     EntryStatus = "REJETE"
)

// LedgerEntry mirrors a row of the ledger_entries table.
type LedgerEntry struct {
	ID           string          `json:"id"`
	EntryID      string          `json:"entryID"`
	Kind         EntryKind       `json:"kind"`
	Source       string          `json:"source"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	AccountOwner string          `json:"accountOwner"`
	Status       EntryStatus     `json:"status"`
	ClientName   string          `json:"clientName"`
	Motif        string          `json:"motif"`
	AuditFields
}

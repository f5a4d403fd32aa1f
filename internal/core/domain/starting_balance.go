package domain

import "github.com/shopspring/decimal"

// StartingBalance is the balance an account begins a trading period with.
// One row per (accountOwner, currency) pair, mutated via upsert and reset to
// zero by a closure. It is the only mutable monetary row in the system.
type StartingBalance struct {
	AccountOwner string          `json:"accountOwner"`
	AccountRole  string          `json:"accountRole"`
	Currency     Currency        `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	AuditFields
}

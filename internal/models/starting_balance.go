package models

import "github.com/shopspring/decimal"

// StartingBalance mirrors a row of the starting_balances table.
// Singleton per (account_owner, currency), mutated via upsert.
type StartingBalance struct {
	AccountOwner string          `json:"accountOwner"`
	AccountRole  string          `json:"accountRole"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	AuditFields
}

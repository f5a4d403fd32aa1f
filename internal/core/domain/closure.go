package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyClosure is the per-currency reconciliation outcome recorded at
// closure time. Gap = Declared - Expected; positive means surplus, negative
// means shortage.
type CurrencyClosure struct {
	Opening     decimal.Decimal `json:"opening"`  // StartingBalance snapshot at closure
	Expected    decimal.Decimal `json:"expected"` // Computed balance at closure
	Declared    decimal.Decimal `json:"declared"` // Counted balance
	Transferred decimal.Decimal `json:"transferred"`
	Gap         decimal.Decimal `json:"gap"`
}

// ClosureTransfer records one closing event for one cashier. Created exactly
// once per cashier per closing day, never mutated, never deleted.
type ClosureTransfer struct {
	ClosureID   string          `json:"closureID"` // Primary Key (UUID)
	CashierID   string          `json:"cashierID"`
	CashierRole string          `json:"cashierRole"`
	ClosingDate time.Time       `json:"closingDate"` // Calendar day, UTC midnight
	USD         CurrencyClosure `json:"usd"`
	CDF         CurrencyClosure `json:"cdf"`
	Notes       string          `json:"notes"` // Mandatory when any gap is non-zero
	AuditFields
}

// ByCurrency returns the per-currency breakdown for the given currency.
func (c *ClosureTransfer) ByCurrency(currency Currency) *CurrencyClosure {
	if currency == CDF {
		return &c.CDF
	}
	return &c.USD
}

// HasGap reports whether any currency closed with a non-zero gap.
func (c *ClosureTransfer) HasGap() bool {
	return !c.USD.Gap.IsZero() || !c.CDF.Gap.IsZero()
}

package domain

import "github.com/shopspring/decimal"

// SessionState describes where a cashier is in the daily open/close cycle.
// The state is projected from starting balances and the entry set, never
// stored.
type SessionState string

const (
	SessionNoOpening SessionState = "NO_OPENING" // no starting balance, or reset by closure
	SessionActive    SessionState = "ACTIVE"     // opening assigned or entries exist
)

// Session is the read-through projection of one cashier's trading day.
type Session struct {
	CashierID string                       `json:"cashierID"`
	State     SessionState                 `json:"state"`
	Balances  map[Currency]decimal.Decimal `json:"balances"`
	Openings  map[Currency]decimal.Decimal `json:"openings"`
}

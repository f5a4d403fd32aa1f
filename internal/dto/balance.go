package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResponse is the read-through balance projection for one
// (accountOwner, currency) pair.
type BalanceResponse struct {
	AccountOwner string          `json:"accountOwner"`
	Currency     string          `json:"currency"`
	Balance      decimal.Decimal `json:"balance"`
	AsOf         time.Time       `json:"asOf"`
}

// BalancesResponse carries all per-currency balances for one account owner.
type BalancesResponse struct {
	AccountOwner string                     `json:"accountOwner"`
	Balances     map[string]decimal.Decimal `json:"balances"`
	AsOf         time.Time                  `json:"asOf"`
}

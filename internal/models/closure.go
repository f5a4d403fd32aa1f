package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosureTransfer mirrors a row of the closing_transfers table. The table is
// append-only; rows are never updated or deleted outside an administrative
// data reset.
type ClosureTransfer struct {
	ClosureID      string          `json:"closureID"`
	CashierID      string          `json:"cashierID"`
	CashierRole    string          `json:"cashierRole"`
	ClosingDate    time.Time       `json:"closingDate"`
	OpeningUSD     decimal.Decimal `json:"openingBalanceUsd"`
	OpeningCDF     decimal.Decimal `json:"openingBalanceCdf"`
	ExpectedUSD    decimal.Decimal `json:"expectedBalanceUsd"`
	ExpectedCDF    decimal.Decimal `json:"expectedBalanceCdf"`
	ClosingUSD     decimal.Decimal `json:"closingBalanceUsd"`
	ClosingCDF     decimal.Decimal `json:"closingBalanceCdf"`
	TransferredUSD decimal.Decimal `json:"transferredUsd"`
	TransferredCDF decimal.Decimal `json:"transferredCdf"`
	GapUSD         decimal.Decimal `json:"gapUsd"`
	GapCDF         decimal.Decimal `json:"gapCdf"`
	Notes          string          `json:"notes"`
	AuditFields
}

package dto

import (
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CloseSessionRequest triggers the end-of-day reconciliation for a cashier.
// CashierID defaults to the acting user. Declared amounts are the counted
// cash; when omitted they default to the computed balance (gap zero).
type CloseSessionRequest struct {
	CashierID   string           `json:"cashierID"`
	DeclaredUSD *decimal.Decimal `json:"declaredUsd"`
	DeclaredCDF *decimal.Decimal `json:"declaredCdf"`
	Notes       string           `json:"notes"`
}

// CurrencyClosureView is the API view of one currency's closure outcome.
type CurrencyClosureView struct {
	Opening     decimal.Decimal `json:"opening"`
	Expected    decimal.Decimal `json:"expected"`
	Declared    decimal.Decimal `json:"declared"`
	Transferred decimal.Decimal `json:"transferred"`
	Gap         decimal.Decimal `json:"gap"`
}

// ClosureResponse is the API view of one closing event.
type ClosureResponse struct {
	ClosureID   string              `json:"closureID"`
	CashierID   string              `json:"cashierID"`
	CashierRole string              `json:"cashierRole"`
	ClosingDate time.Time           `json:"closingDate"`
	USD         CurrencyClosureView `json:"usd"`
	CDF         CurrencyClosureView `json:"cdf"`
	Notes       string              `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// CloseSessionResponse reports the closure outcome. AlreadyClosed is true
// when the day already has a closure record, which the closure field then
// carries. NothingToReconcile is true when every balance was already zero
// and no record exists for the day, so there was nothing to close.
type CloseSessionResponse struct {
	AlreadyClosed      bool             `json:"alreadyClosed"`
	NothingToReconcile bool             `json:"nothingToReconcile,omitempty"`
	Closure            *ClosureResponse `json:"closure,omitempty"`
}

// ListClosuresResponse is a page of closures plus the next cursor.
type ListClosuresResponse struct {
	Closures  []ClosureResponse `json:"closures"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToClosureResponse converts a domain closure to its API view.
func ToClosureResponse(c *domain.ClosureTransfer) ClosureResponse {
	view := func(cc domain.CurrencyClosure) CurrencyClosureView {
		return CurrencyClosureView{
			Opening:     cc.Opening,
			Expected:    cc.Expected,
			Declared:    cc.Declared,
			Transferred: cc.Transferred,
			Gap:         cc.Gap,
		}
	}
	return ClosureResponse{
		ClosureID:   c.ClosureID,
		CashierID:   c.CashierID,
		CashierRole: c.CashierRole,
		ClosingDate: c.ClosingDate,
		USD:         view(c.USD),
		CDF:         view(c.CDF),
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		CreatedBy:   c.CreatedBy,
	}
}

package dto

import (
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssignOpeningRequest is the supervisor payload assigning a cashier's
// starting balance for one currency.
type AssignOpeningRequest struct {
	AccountOwner string          `json:"accountOwner" binding:"required"`
	Currency     domain.Currency `json:"currency" binding:"required,oneof=USD CDF"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest moves part of a cashier's balance to another account as a
// balanced TRF-OUT/TRF-IN pair.
type TransferRequest struct {
	ToAccount string          `json:"toAccount" binding:"required"`
	Currency  domain.Currency `json:"currency" binding:"required,oneof=USD CDF"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Motif     string          `json:"motif"`
}

// TransferResponse returns both sides of a recorded transfer.
type TransferResponse struct {
	Out EntryResponse `json:"out"`
	In  EntryResponse `json:"in"`
}

// SessionResponse is the projection of a cashier's trading day.
type SessionResponse struct {
	CashierID string                     `json:"cashierID"`
	State     string                     `json:"state"`
	Openings  map[string]decimal.Decimal `json:"openings"`
	Balances  map[string]decimal.Decimal `json:"balances"`
}

// ToSessionResponse converts a domain session projection to its API view.
func ToSessionResponse(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		CashierID: s.CashierID,
		State:     string(s.State),
		Openings:  make(map[string]decimal.Decimal, len(s.Openings)),
		Balances:  make(map[string]decimal.Decimal, len(s.Balances)),
	}
	for cur, amt := range s.Openings {
		resp.Openings[string(cur)] = amt
	}
	for cur, amt := range s.Balances {
		resp.Balances[string(cur)] = amt
	}
	return resp
}

package dto

import (
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is the payload for recording a ledger entry.
// AccountOwner defaults to the creator; setting it to another user requires
// supervisor privileges.
type CreateEntryRequest struct {
	Kind         domain.EntryKind   `json:"kind" binding:"required,oneof=RECETTE DEPENSE"`
	Source       domain.EntrySource `json:"source" binding:"omitempty,oneof=COMPTABILITE LOGISTIQUE"`
	Currency     domain.Currency    `json:"currency" binding:"required,oneof=USD CDF"`
	Amount       decimal.Decimal    `json:"amount" binding:"required"`
	AccountOwner string             `json:"accountOwner"`
	ClientName   string             `json:"clientName"`
	Motif        string             `json:"motif"`
}

// ListEntriesParams carries the query filters of the ledger listing.
type ListEntriesParams struct {
	AccountOwner string     `form:"accountOwner"`
	Status       string     `form:"status" binding:"omitempty,oneof=ENREGISTRE VALIDE REJETE"`
	Currency     string     `form:"currency" binding:"omitempty,oneof=USD CDF"`
	From         *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To           *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit        int        `form:"limit"`
	NextToken    *string    `form:"nextToken"`
}

// EntryResponse is the API view of a ledger entry.
type EntryResponse struct {
	ID           string          `json:"id"`
	EntryID      string          `json:"entryID"`
	Kind         string          `json:"kind"`
	Source       string          `json:"source"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	AccountOwner string          `json:"accountOwner"`
	Status       string          `json:"status"`
	ClientName   string          `json:"clientName,omitempty"`
	Motif        string          `json:"motif,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ListEntriesResponse is a page of ledger entries plus the next cursor.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain entry to its API view.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		EntryID:      e.EntryID,
		Kind:         string(e.Kind),
		Source:       string(e.Source),
		Currency:     string(e.Currency),
		Amount:       e.Amount,
		AccountOwner: e.AccountOwner,
		Status:       string(e.Status),
		ClientName:   e.ClientName,
		Motif:        e.Motif,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of domain entries to API views.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

package services

import (
	"context"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
)

// EntrySvcFacade records ledger entries and drives the approval workflow.
type EntrySvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.LedgerEntry, error)
	GetEntryByID(ctx context.Context, id string, requestingUserID string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams, requestingUserID string) (*dto.ListEntriesResponse, error)
	ValidateEntry(ctx context.Context, id string, actorUserID string) (*domain.LedgerEntry, error)
	RejectEntry(ctx context.Context, id string, actorUserID string) (*domain.LedgerEntry, error)
}

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
	"github.com/mbmkongo/caisse_management_app/internal/utils/entryid"
)

// entryService records ledger entries and drives the bounded approval
// workflow ENREGISTRE -> {VALIDE, REJETE}.
type entryService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	authzSvc  portssvc.AuthzSvcFacade
	publisher events.Publisher
}

// NewEntryService creates a new ledger entry service.
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, authzSvc portssvc.AuthzSvcFacade, publisher events.Publisher) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo: entryRepo,
		authzSvc:  authzSvc,
		publisher: publisher,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// prefixForSource maps the originating module to its entry-ID prefix. The
// source never influences the sign convention, only the identifier.
func prefixForSource(source domain.EntrySource) string {
	if source == domain.SourceLogistique {
		return entryid.PrefixLogistique
	}
	return entryid.PrefixComptabilite
}

// CreateEntry records a new ledger entry. Entries land in ENREGISTRE unless
// the creator's role auto-validates; recording on behalf of another account
// owner requires supervisor privileges.
func (s *entryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	role, err := s.authzSvc.Authorize(ctx, creatorUserID, domain.CapRecordEntries)
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, apperrors.NewAppError(400, "entry amount must be strictly positive", apperrors.ErrValidation)
	}
	if !req.Currency.Valid() {
		return nil, apperrors.NewAppError(400, "unsupported currency "+string(req.Currency), apperrors.ErrValidation)
	}

	accountOwner := req.AccountOwner
	if accountOwner == "" {
		accountOwner = creatorUserID
	}
	if accountOwner != creatorUserID {
		if _, err := s.authzSvc.Authorize(ctx, creatorUserID, domain.CapAssignOpening); err != nil {
			logger.Warn("Attempt to record entry on another account without supervisor rights",
				slog.String("creator_id", creatorUserID), slog.String("account_owner", accountOwner))
			return nil, err
		}
	}

	source := req.Source
	if source == "" {
		source = domain.SourceComptabilite
		if role == domain.RoleLogistique {
			source = domain.SourceLogistique
		}
	}

	status := domain.Enregistre
	if s.authzSvc.AutoValidates(role) {
		status = domain.Valide
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		ID:           uuid.NewString(),
		Kind:         req.Kind,
		Source:       source,
		Currency:     req.Currency,
		Amount:       req.Amount,
		AccountOwner: accountOwner,
		Status:       status,
		ClientName:   req.ClientName,
		Motif:        req.Motif,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	saved, err := s.entryRepo.SaveEntry(ctx, entry, prefixForSource(source))
	if err != nil {
		logger.Error("Failed to save ledger entry", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Ledger entry recorded",
		slog.String("entry_id", saved.EntryID),
		slog.String("kind", string(saved.Kind)),
		slog.String("status", string(saved.Status)))

	s.publisher.Publish(events.Event{
		Type:         events.EntryCreated,
		AccountOwner: saved.AccountOwner,
		Currency:     string(saved.Currency),
		EntryID:      saved.EntryID,
		At:           now,
	})

	return saved, nil
}

// GetEntryByID retrieves one entry. Non-supervisor roles can only read
// entries recorded against their own account.
func (s *entryService) GetEntryByID(ctx context.Context, id string, requestingUserID string) (*domain.LedgerEntry, error) {
	role, err := s.authzSvc.Authorize(ctx, requestingUserID, domain.CapRecordEntries)
	if err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canReadAllAccounts(role) && entry.AccountOwner != requestingUserID && entry.CreatedBy != requestingUserID {
		return nil, apperrors.NewAppError(403, "entry "+id+" belongs to another account", apperrors.ErrForbidden)
	}
	return entry, nil
}

// ListEntries retrieves a filtered page of the ledger. Cashier and
// logistics roles are pinned to their own account regardless of the filter.
func (s *entryService) ListEntries(ctx context.Context, params dto.ListEntriesParams, requestingUserID string) (*dto.ListEntriesResponse, error) {
	role, err := s.authzSvc.Authorize(ctx, requestingUserID, domain.CapRecordEntries)
	if err != nil {
		return nil, err
	}

	repoParams := portsrepo.ListEntriesParams{
		From:      params.From,
		To:        params.To,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if params.AccountOwner != "" {
		repoParams.AccountOwner = &params.AccountOwner
	}
	if !s.canReadAllAccounts(role) {
		owner := requestingUserID
		repoParams.AccountOwner = &owner
	}
	if params.Status != "" {
		status := domain.EntryStatus(params.Status)
		repoParams.Status = &status
	}
	if params.Currency != "" {
		currency := domain.Currency(params.Currency)
		repoParams.Currency = &currency
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, repoParams)
	if err != nil {
		return nil, err
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ValidateEntry moves an ENREGISTRE entry to VALIDE. The transition is
// guarded at the database, so a concurrent resolution surfaces as
// ErrConflict instead of a double validation.
func (s *entryService) ValidateEntry(ctx context.Context, id string, actorUserID string) (*domain.LedgerEntry, error) {
	return s.resolveEntry(ctx, id, actorUserID, domain.Valide, events.EntryValidated)
}

// RejectEntry moves an ENREGISTRE entry to REJETE, excluding it from every
// balance without deleting the audit record.
func (s *entryService) RejectEntry(ctx context.Context, id string, actorUserID string) (*domain.LedgerEntry, error) {
	return s.resolveEntry(ctx, id, actorUserID, domain.Rejete, events.EntryRejected)
}

func (s *entryService) resolveEntry(ctx context.Context, id string, actorUserID string, to domain.EntryStatus, eventType events.EventType) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.authzSvc.Authorize(ctx, actorUserID, domain.CapValidateEntries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.entryRepo.UpdateEntryStatus(ctx, id, domain.Enregistre, to, actorUserID, now); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("Ledger entry resolved",
		slog.String("entry_id", id),
		slog.String("status", string(to)),
		slog.String("actor_id", actorUserID))

	s.publisher.Publish(events.Event{
		Type:         eventType,
		AccountOwner: entry.AccountOwner,
		Currency:     string(entry.Currency),
		EntryID:      entry.EntryID,
		At:           now,
	})

	return entry, nil
}

// canReadAllAccounts reports whether the role may read the whole ledger.
func (s *entryService) canReadAllAccounts(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleRespCompta
}

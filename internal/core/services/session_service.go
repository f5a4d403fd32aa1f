package services

import (
	"context"
	"fmt"
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
	"github.com/shopspring/decimal"
)

// sessionService manages the daily cash-session lifecycle: opening balance
// assignment, session projection, and intra-day transfers.
type sessionService struct {
	entryRepo   portsrepo.EntryRepositoryFacade
	balanceRepo portsrepo.BalanceRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	balanceSvc  portssvc.BalanceSvcFacade
	authzSvc    portssvc.AuthzSvcFacade
	publisher   events.Publisher
}

// NewSessionService creates a new session lifecycle service.
func NewSessionService(
	entryRepo portsrepo.EntryRepositoryFacade,
	balanceRepo portsrepo.BalanceRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
	authzSvc portssvc.AuthzSvcFacade,
	publisher events.Publisher,
) portssvc.SessionSvcFacade {
	return &sessionService{
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		balanceSvc:  balanceSvc,
		authzSvc:    authzSvc,
		publisher:   publisher,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// AssignOpeningBalance upserts the cashier's starting balance and records
// the mirroring RECETTE entry atomically. The mirror entry is how the
// opening enters the balance; the starting-balance row is only the snapshot
// the closure reports as the day's opening.
func (s *sessionService) AssignOpeningBalance(ctx context.Context, req dto.AssignOpeningRequest, supervisorUserID string) (*domain.StartingBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.authzSvc.Authorize(ctx, supervisorUserID, domain.CapAssignOpening); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, apperrors.NewAppError(400, "opening amount must be strictly positive", apperrors.ErrValidation)
	}
	if !req.Currency.Valid() {
		return nil, apperrors.NewAppError(400, "unsupported currency "+string(req.Currency), apperrors.ErrValidation)
	}

	target, err := s.userRepo.FindUserByID(ctx, req.AccountOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account owner %s: %w", req.AccountOwner, err)
	}

	now := time.Now().UTC()
	balance := domain.StartingBalance{
		AccountOwner: target.UserID,
		AccountRole:  string(target.Role),
		Currency:     req.Currency,
		Amount:       req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     supervisorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: supervisorUserID,
		},
	}

	entry := domain.LedgerEntry{
		ID:           uuid.NewString(),
		EntryID:      entryid.Opening(now),
		Kind:         domain.Recette,
		Source:       domain.SourceComptabilite,
		Currency:     req.Currency,
		Amount:       req.Amount,
		AccountOwner: target.UserID,
		Status:       domain.Valide,
		Motif:        "Attribution du solde d'ouverture",
		AuditFields:  balance.AuditFields,
	}

	if err := s.balanceRepo.SaveOpening(ctx, balance, entry); err != nil {
		logger.Error("Failed to assign opening balance",
			slog.String("account_owner", target.UserID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Opening balance assigned",
		slog.String("account_owner", target.UserID),
		slog.String("currency", string(req.Currency)),
		slog.String("amount", req.Amount.String()))

	s.publisher.Publish(events.Event{
		Type:         events.OpeningAssigned,
		AccountOwner: target.UserID,
		Currency:     string(req.Currency),
		EntryID:      entry.EntryID,
		At:           now,
	})

	return &balance, nil
}

// GetSession projects the cashier's trading day from starting balances and
// the entry set. The projection is never stored.
func (s *sessionService) GetSession(ctx context.Context, cashierID string, requestingUserID string) (*domain.Session, error) {
	role, err := s.authzSvc.Authorize(ctx, requestingUserID, domain.CapRecordEntries)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleRespCompta && cashierID != requestingUserID {
		return nil, apperrors.NewAppError(403, "cannot view another cashier's session", apperrors.ErrForbidden)
	}

	openings, err := s.balanceRepo.GetStartingBalances(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	balances, err := s.balanceSvc.ComputeBalances(ctx, cashierID, nil)
	if err != nil {
		return nil, err
	}

	state := domain.SessionNoOpening
	for _, amount := range openings {
		if !amount.IsZero() {
			state = domain.SessionActive
		}
	}
	for _, amount := range balances {
		if !amount.IsZero() {
			state = domain.SessionActive
		}
	}

	return &domain.Session{
		CashierID: cashierID,
		State:     state,
		Balances:  balances,
		Openings:  normalizeOpenings(openings),
	}, nil
}

// normalizeOpenings fills in explicit zeros for currencies with no
// starting-balance row, so the projection always shows both currencies.
func normalizeOpenings(openings map[domain.Currency]decimal.Decimal) map[domain.Currency]decimal.Decimal {
	full := make(map[domain.Currency]decimal.Decimal, len(domain.Currencies))
	for _, currency := range domain.Currencies {
		full[currency] = decimal.Zero
	}
	for currency, amount := range openings {
		full[currency] = amount
	}
	return full
}

// TransferToSupervisor records a balanced TRF-OUT/TRF-IN pair moving part of
// the acting cashier's balance to another account. Both sides carry the same
// timestamp stem and land as VALIDE; the pair never needs approval because
// it nets to zero across the two accounts.
func (s *sessionService) TransferToSupervisor(ctx context.Context, req dto.TransferRequest, actorUserID string) (*dto.TransferResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.authzSvc.Authorize(ctx, actorUserID, domain.CapRecordEntries); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, apperrors.NewAppError(400, "transfer amount must be strictly positive", apperrors.ErrValidation)
	}
	if !req.Currency.Valid() {
		return nil, apperrors.NewAppError(400, "unsupported currency "+string(req.Currency), apperrors.ErrValidation)
	}
	if req.ToAccount == actorUserID {
		return nil, apperrors.NewAppError(400, "cannot transfer to own account", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.FindUserByID(ctx, req.ToAccount); err != nil {
		return nil, fmt.Errorf("failed to resolve receiving account %s: %w", req.ToAccount, err)
	}

	balance, err := s.balanceSvc.ComputeBalance(ctx, actorUserID, req.Currency, nil)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(req.Amount) {
		return nil, apperrors.NewAppError(400,
			"transfer of "+req.Amount.String()+" "+string(req.Currency)+" exceeds available balance "+balance.String(),
			apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	outID, inID := entryid.TransferPair(now)
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorUserID,
	}

	out := domain.LedgerEntry{
		ID:           uuid.NewString(),
		EntryID:      outID,
		Kind:         domain.Depense,
		Source:       domain.SourceComptabilite,
		Currency:     req.Currency,
		Amount:       req.Amount,
		AccountOwner: actorUserID,
		Status:       domain.Valide,
		Motif:        req.Motif,
		AuditFields:  audit,
	}
	in := domain.LedgerEntry{
		ID:           uuid.NewString(),
		EntryID:      inID,
		Kind:         domain.Recette,
		Source:       domain.SourceComptabilite,
		Currency:     req.Currency,
		Amount:       req.Amount,
		AccountOwner: req.ToAccount,
		Status:       domain.Valide,
		Motif:        req.Motif,
		AuditFields:  audit,
	}

	if err := s.entryRepo.SaveEntryPair(ctx, out, in); err != nil {
		logger.Error("Failed to record transfer pair", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transfer recorded",
		slog.String("out_entry_id", outID),
		slog.String("to_account", req.ToAccount),
		slog.String("amount", req.Amount.String()))

	for _, entry := range []domain.LedgerEntry{out, in} {
		s.publisher.Publish(events.Event{
			Type:         events.EntryCreated,
			AccountOwner: entry.AccountOwner,
			Currency:     string(entry.Currency),
			EntryID:      entry.EntryID,
			At:           now,
		})
	}

	return &dto.TransferResponse{
		Out: dto.ToEntryResponse(&out),
		In:  dto.ToEntryResponse(&in),
	}, nil
}

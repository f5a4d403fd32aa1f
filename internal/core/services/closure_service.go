package services

import (
	"context"
	"errors"
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
	"github.com/mbmkongo/caisse_management_app/internal/utils/accounting"
	"github.com/mbmkongo/caisse_management_app/internal/utils/entryid"
	"github.com/shopspring/decimal"
)

// closureService performs end-of-day reconciliation: gap analysis, the
// closure record, the balanced transfer pair per currency, and the
// starting-balance reset.
type closureService struct {
	closureRepo         portsrepo.ClosureRepositoryFacade
	balanceRepo         portsrepo.BalanceRepositoryFacade
	userRepo            portsrepo.UserRepositoryFacade
	balanceSvc          portssvc.BalanceSvcFacade
	authzSvc            portssvc.AuthzSvcFacade
	publisher           events.Publisher
	supervisorAccountID string
}

// NewClosureService creates a new closure service. supervisorAccountID is
// the account credited by the closing transfer pairs.
func NewClosureService(
	closureRepo portsrepo.ClosureRepositoryFacade,
	balanceRepo portsrepo.BalanceRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
	authzSvc portssvc.AuthzSvcFacade,
	publisher events.Publisher,
	supervisorAccountID string,
) portssvc.ClosureSvcFacade {
	return &closureService{
		closureRepo:         closureRepo,
		balanceRepo:         balanceRepo,
		userRepo:            userRepo,
		balanceSvc:          balanceSvc,
		authzSvc:            authzSvc,
		publisher:           publisher,
		supervisorAccountID: supervisorAccountID,
	}
}

var _ portssvc.ClosureSvcFacade = (*closureService)(nil)

// CloseSession runs the closing event for a cashier.
//
// The closure is a two-sided movement: the cashier's expected balance leaves
// as a DEPENSE and lands on the supervisor account as a RECETTE, so the
// books stay balanced across accounts and the cashier's post-closure balance
// is exactly zero. The declared (counted) amounts only feed the gap
// analysis; the transfer always moves the expected balance.
//
// Closing a session whose balances are already all zero is an idempotent
// no-op: no record, no transfer, no error.
func (s *closureService) CloseSession(ctx context.Context, req dto.CloseSessionRequest, actorUserID string) (*dto.CloseSessionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cashierID := req.CashierID
	if cashierID == "" {
		cashierID = actorUserID
	}

	// A cashier may close its own session; closing someone else's requires
	// the supervisor capability.
	capability := domain.CapRecordEntries
	if cashierID != actorUserID {
		capability = domain.CapCloseSessions
	}
	if _, err := s.authzSvc.Authorize(ctx, actorUserID, capability); err != nil {
		return nil, err
	}

	cashier, err := s.userRepo.FindUserByID(ctx, cashierID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cashier %s: %w", cashierID, err)
	}

	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	closure := domain.ClosureTransfer{
		ClosureID:   uuid.NewString(),
		CashierID:   cashier.UserID,
		CashierRole: string(cashier.Role),
		ClosingDate: day,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	declared := map[domain.Currency]*decimal.Decimal{
		domain.USD: req.DeclaredUSD,
		domain.CDF: req.DeclaredCDF,
	}

	allZero := true
	for _, currency := range domain.Currencies {
		opening, err := s.balanceRepo.GetStartingBalance(ctx, cashier.UserID, currency)
		if err != nil {
			return nil, err
		}
		expected, err := s.balanceSvc.ComputeBalance(ctx, cashier.UserID, currency, nil)
		if err != nil {
			return nil, err
		}
		if expected.IsNegative() {
			return nil, apperrors.NewAppError(500,
				"expected balance of "+cashier.UserID+" ("+string(currency)+") is negative: "+expected.String(),
				apperrors.ErrIntegrity)
		}

		// Declared defaults to the computed balance: an omitted count means
		// "no discrepancy observed", never "counted zero".
		declaredAmount := expected
		if d := declared[currency]; d != nil {
			declaredAmount = *d
		}

		cc := accounting.AnalyzeClosure(expected, declaredAmount)
		cc.Opening = opening
		cc.Transferred = expected
		*closure.ByCurrency(currency) = cc

		if !opening.IsZero() || !expected.IsZero() {
			allZero = false
		}
	}

	if allZero {
		// Nothing to reconcile. Surface the existing record when the session
		// was already closed today; otherwise report the empty session as
		// such, never as a closure.
		existing, err := s.closureRepo.FindClosureByCashierAndDate(ctx, cashier.UserID, day)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			view := dto.ToClosureResponse(existing)
			logger.Info("Close requested on already reconciled day, no-op", slog.String("cashier_id", cashier.UserID))
			return &dto.CloseSessionResponse{AlreadyClosed: true, Closure: &view}, nil
		}
		logger.Info("Close requested on empty session, nothing to reconcile", slog.String("cashier_id", cashier.UserID))
		return &dto.CloseSessionResponse{NothingToReconcile: true}, nil
	}

	if closure.HasGap() && closure.Notes == "" {
		return nil, apperrors.NewAppError(400, "notes are required when closing with a non-zero gap", apperrors.ErrValidation)
	}

	transferEntries := s.buildTransferEntries(&closure, actorUserID, now)

	if err := s.closureRepo.SaveClosure(ctx, closure, transferEntries); err != nil {
		// A lost double-close race means the day is already reconciled.
		if errors.Is(err, apperrors.ErrConflict) {
			if existing, findErr := s.closureRepo.FindClosureByCashierAndDate(ctx, cashier.UserID, day); findErr == nil {
				view := dto.ToClosureResponse(existing)
				logger.Warn("Session already closed today", slog.String("cashier_id", cashier.UserID))
				return &dto.CloseSessionResponse{AlreadyClosed: true, Closure: &view}, nil
			}
		}
		logger.Error("Failed to close session",
			slog.String("cashier_id", cashier.UserID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Session closed",
		slog.String("cashier_id", cashier.UserID),
		slog.String("closure_id", closure.ClosureID),
		slog.Bool("has_gap", closure.HasGap()))

	s.publisher.Publish(events.Event{
		Type:         events.SessionClosed,
		AccountOwner: cashier.UserID,
		At:           now,
	})

	view := dto.ToClosureResponse(&closure)
	return &dto.CloseSessionResponse{Closure: &view}, nil
}

// buildTransferEntries builds one balanced DEPENSE/RECETTE pair per currency
// with a non-zero expected balance. Each pair gets its own timestamp stem so
// the identifiers stay unique when both currencies close in the same call.
func (s *closureService) buildTransferEntries(closure *domain.ClosureTransfer, actorUserID string, now time.Time) []domain.LedgerEntry {
	entries := []domain.LedgerEntry{}
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorUserID,
	}

	for i, currency := range domain.Currencies {
		amount := closure.ByCurrency(currency).Transferred
		if amount.IsZero() {
			continue
		}
		outID, inID := entryid.TransferPair(now.Add(time.Duration(i) * time.Millisecond))
		motif := "Transfert de clôture " + closure.ClosingDate.Format("2006-01-02")

		entries = append(entries,
			domain.LedgerEntry{
				ID:           uuid.NewString(),
				EntryID:      outID,
				Kind:         domain.Depense,
				Source:       domain.SourceComptabilite,
				Currency:     currency,
				Amount:       amount,
				AccountOwner: closure.CashierID,
				Status:       domain.Valide,
				Motif:        motif,
				AuditFields:  audit,
			},
			domain.LedgerEntry{
				ID:           uuid.NewString(),
				EntryID:      inID,
				Kind:         domain.Recette,
				Source:       domain.SourceComptabilite,
				Currency:     currency,
				Amount:       amount,
				AccountOwner: s.supervisorAccountID,
				Status:       domain.Valide,
				Motif:        motif,
				AuditFields:  audit,
			},
		)
	}
	return entries
}

// GetClosure retrieves the closure recorded for a cashier on the given day.
// Cashiers can only read their own closures.
func (s *closureService) GetClosure(ctx context.Context, cashierID string, day time.Time, requestingUserID string) (*dto.ClosureResponse, error) {
	role, err := s.authzSvc.Authorize(ctx, requestingUserID, domain.CapRecordEntries)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleRespCompta && cashierID != requestingUserID {
		return nil, apperrors.NewAppError(403, "cannot view another cashier's closure", apperrors.ErrForbidden)
	}

	closure, err := s.closureRepo.FindClosureByCashierAndDate(ctx, cashierID, day)
	if err != nil {
		return nil, err
	}
	view := dto.ToClosureResponse(closure)
	return &view, nil
}

// ListClosures retrieves a page of closing events, supervisor only.
func (s *closureService) ListClosures(ctx context.Context, limit int, nextToken *string, requestingUserID string) (*dto.ListClosuresResponse, error) {
	if _, err := s.authzSvc.Authorize(ctx, requestingUserID, domain.CapCloseSessions); err != nil {
		return nil, err
	}

	closures, next, err := s.closureRepo.ListClosures(ctx, limit, nextToken)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ClosureResponse, len(closures))
	for i := range closures {
		views[i] = dto.ToClosureResponse(&closures[i])
	}
	return &dto.ListClosuresResponse{Closures: views, NextToken: next}, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService is the single balance calculator. Balances are never
// stored; every caller recomputes through here, so a validated entry is
// reflected everywhere at once.
type balanceService struct {
	balanceRepo portsrepo.BalanceRepositoryFacade
}

// NewBalanceService creates a new balance calculator.
func NewBalanceService(balanceRepo portsrepo.BalanceRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{balanceRepo: balanceRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// ComputeBalance folds the validated entry sums into the current balance:
// recettes - depenses. The ledger is the single source; the opening enters
// through its mirror entry, never through the starting_balances snapshot.
func (s *balanceService) ComputeBalance(ctx context.Context, accountOwner string, currency domain.Currency, asOf *time.Time) (decimal.Decimal, error) {
	sums, err := s.balanceRepo.SumValidatedEntries(ctx, accountOwner, currency, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate validated entries: %w", err)
	}

	return sums.Recette.Sub(sums.Depense), nil
}

// ComputeBalances returns the balance of every supported currency.
func (s *balanceService) ComputeBalances(ctx context.Context, accountOwner string, asOf *time.Time) (map[domain.Currency]decimal.Decimal, error) {
	balances := make(map[domain.Currency]decimal.Decimal, len(domain.Currencies))
	for _, currency := range domain.Currencies {
		balance, err := s.ComputeBalance(ctx, accountOwner, currency, asOf)
		if err != nil {
			return nil, err
		}
		balances[currency] = balance
	}
	return balances, nil
}

package services

import (
	"context"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade is the single balance calculator. Every surface showing a
// balance is a read-through consumer of ComputeBalance; nothing caches it.
type BalanceSvcFacade interface {
	// ComputeBalance nets the validated entries into the current balance.
	// asOf nil means now.
	ComputeBalance(ctx context.Context, accountOwner string, currency domain.Currency, asOf *time.Time) (decimal.Decimal, error)

	// ComputeBalances returns the balance of every supported currency.
	ComputeBalances(ctx context.Context, accountOwner string, asOf *time.Time) (map[domain.Currency]decimal.Decimal, error)
}

package accounting

import (
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FoldEntries folds a set of ledger entries into the resulting balance for
// one (accountOwner, currency) pair, seeded with start (zero for a full
// replay). This is the same computation the balance repository performs in
// SQL; keeping the pure form here gives closure previews and tests a single
// source of truth.
//
// Only VALIDE entries count. The ledger is the single source: the opening
// enters through its OPENING mirror entry and leaves through the closure's
// transfer DEPENSE, so a closed session folds back to exactly zero.
func FoldEntries(start decimal.Decimal, entries []domain.LedgerEntry, currency domain.Currency, asOf *time.Time) decimal.Decimal {
	balance := start
	for _, e := range entries {
		if e.Status != domain.Valide || e.Currency != currency {
			continue
		}
		if asOf != nil && e.CreatedAt.After(*asOf) {
			continue
		}
		balance = balance.Add(e.SignedAmount())
	}
	return balance
}

// AnalyzeClosure compares the computed (expected) balance with the declared
// (counted) balance at closure time. Positive gap means surplus, negative
// means shortage. Pure; escalation policy is the caller's concern.
func AnalyzeClosure(expected, declared decimal.Decimal) domain.CurrencyClosure {
	return domain.CurrencyClosure{
		Expected: expected,
		Declared: declared,
		Gap:      declared.Sub(expected),
	}
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockBalanceRepo *MockBalanceRepository
	service         portssvc.BalanceSvcFacade
	accountOwner    string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockBalanceRepo = new(MockBalanceRepository)
	suite.service = services.NewBalanceService(suite.mockBalanceRepo)
	suite.accountOwner = uuid.NewString()
}

func (suite *BalanceServiceTestSuite) TestComputeBalance_NetsValidatedSums() {
	ctx := context.Background()

	// Recettes include the opening mirror entry (200 opening + 450 trading).
	suite.mockBalanceRepo.On("SumValidatedEntries", ctx, suite.accountOwner, domain.USD, (*time.Time)(nil)).
		Return(portsrepo.BalanceSums{
			Recette: decimal.NewFromInt(650),
			Depense: decimal.NewFromInt(150),
		}, nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, suite.accountOwner, domain.USD, nil)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(500)), "650 - 150")
	suite.mockBalanceRepo.AssertNotCalled(suite.T(), "GetStartingBalance")
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestComputeBalance_ClosedSessionIsZero() {
	ctx := context.Background()

	// After a closure the transfer DEPENSE mirrors everything the account
	// ever received, opening included.
	suite.mockBalanceRepo.On("SumValidatedEntries", ctx, suite.accountOwner, domain.USD, (*time.Time)(nil)).
		Return(portsrepo.BalanceSums{
			Recette: decimal.NewFromInt(130),
			Depense: decimal.NewFromInt(130),
		}, nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, suite.accountOwner, domain.USD, nil)

	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *BalanceServiceTestSuite) TestComputeBalance_PassesAsOfCutoff() {
	ctx := context.Background()
	asOf := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)

	suite.mockBalanceRepo.On("SumValidatedEntries", ctx, suite.accountOwner, domain.CDF, &asOf).
		Return(portsrepo.BalanceSums{Recette: decimal.NewFromInt(80000), Depense: decimal.Zero}, nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, suite.accountOwner, domain.CDF, &asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(80000)))
}

func (suite *BalanceServiceTestSuite) TestComputeBalances_CoversAllCurrencies() {
	ctx := context.Background()

	suite.mockBalanceRepo.On("SumValidatedEntries", ctx, suite.accountOwner, domain.USD, (*time.Time)(nil)).
		Return(portsrepo.BalanceSums{Recette: decimal.NewFromInt(150), Depense: decimal.NewFromInt(30)}, nil).Once()
	suite.mockBalanceRepo.On("SumValidatedEntries", ctx, suite.accountOwner, domain.CDF, (*time.Time)(nil)).
		Return(portsrepo.BalanceSums{Recette: decimal.Zero, Depense: decimal.Zero}, nil).Once()

	balances, err := suite.service.ComputeBalances(ctx, suite.accountOwner, nil)

	suite.Require().NoError(err)
	suite.Len(balances, 2)
	suite.True(balances[domain.USD].Equal(decimal.NewFromInt(120)))
	suite.True(balances[domain.CDF].IsZero())
}

func (suite *BalanceServiceTestSuite) TestComputeBalance_PropagatesRepositoryError() {
	ctx := context.Background()

	suite.mockBalanceRepo.On("SumValidatedEntries", ctx, suite.accountOwner, domain.USD, (*time.Time)(nil)).
		Return(portsrepo.BalanceSums{}, apperrors.ErrUnavailable).Once()

	_, err := suite.service.ComputeBalance(ctx, suite.accountOwner, domain.USD, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnavailable)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

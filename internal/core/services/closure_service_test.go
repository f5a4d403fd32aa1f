package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/core/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ClosureServiceTestSuite struct {
	suite.Suite
	mockClosureRepo     *MockClosureRepository
	mockBalanceRepo     *MockBalanceRepository
	mockUserRepo        *MockUserRepository
	mockBalanceSvc      *MockBalanceService
	mockAuthzSvc        *MockAuthzService
	publisher           *recordingPublisher
	service             portssvc.ClosureSvcFacade
	cashierID           string
	supervisorID        string
	supervisorAccountID string
	cashier             *domain.User
}

func (suite *ClosureServiceTestSuite) SetupTest() {
	suite.mockClosureRepo = new(MockClosureRepository)
	suite.mockBalanceRepo = new(MockBalanceRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockAuthzSvc = new(MockAuthzService)
	suite.publisher = &recordingPublisher{}

	suite.cashierID = uuid.NewString()
	suite.supervisorID = uuid.NewString()
	suite.supervisorAccountID = uuid.NewString()
	suite.cashier = &domain.User{UserID: suite.cashierID, Role: domain.RoleCaissier}

	suite.service = services.NewClosureService(
		suite.mockClosureRepo,
		suite.mockBalanceRepo,
		suite.mockUserRepo,
		suite.mockBalanceSvc,
		suite.mockAuthzSvc,
		suite.publisher,
		suite.supervisorAccountID,
	)
}

// stubBalances wires the opening and expected balances for both currencies.
func (suite *ClosureServiceTestSuite) stubBalances(ctx context.Context, openingUSD, expectedUSD, openingCDF, expectedCDF decimal.Decimal) {
	suite.mockBalanceRepo.On("GetStartingBalance", ctx, suite.cashierID, domain.USD).Return(openingUSD, nil).Once()
	suite.mockBalanceSvc.On("ComputeBalance", ctx, suite.cashierID, domain.USD, (*time.Time)(nil)).Return(expectedUSD, nil).Once()
	suite.mockBalanceRepo.On("GetStartingBalance", ctx, suite.cashierID, domain.CDF).Return(openingCDF, nil).Once()
	suite.mockBalanceSvc.On("ComputeBalance", ctx, suite.cashierID, domain.CDF, (*time.Time)(nil)).Return(expectedCDF, nil).Once()
}

func (suite *ClosureServiceTestSuite) TestCloseSession_SupervisorClosesWithGap() {
	ctx := context.Background()
	declaredUSD := decimal.NewFromInt(480)
	req := dto.CloseSessionRequest{
		CashierID:   suite.cashierID,
		DeclaredUSD: &declaredUSD,
		Notes:       "Billet de 20 USD manquant",
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.stubBalances(ctx, decimal.NewFromInt(200), decimal.NewFromInt(500), decimal.Zero, decimal.Zero)

	suite.mockClosureRepo.On("SaveClosure", ctx, mock.AnythingOfType("domain.ClosureTransfer"), mock.AnythingOfType("[]domain.LedgerEntry")).
		Return(nil).
		Run(func(args mock.Arguments) {
			closure := args.Get(1).(domain.ClosureTransfer)
			suite.True(closure.USD.Expected.Equal(decimal.NewFromInt(500)))
			suite.True(closure.USD.Declared.Equal(decimal.NewFromInt(480)))
			suite.True(closure.USD.Gap.Equal(decimal.NewFromInt(-20)), "gap must be declared minus expected")
			suite.True(closure.USD.Transferred.Equal(decimal.NewFromInt(500)), "the books move the expected balance, not the declared one")
			suite.True(closure.USD.Opening.Equal(decimal.NewFromInt(200)))

			// One balanced pair for USD only; CDF had nothing to move.
			entries := args.Get(2).([]domain.LedgerEntry)
			suite.Require().Len(entries, 2)
			suite.Equal(domain.Depense, entries[0].Kind)
			suite.Equal(suite.cashierID, entries[0].AccountOwner)
			suite.Equal(domain.Recette, entries[1].Kind)
			suite.Equal(suite.supervisorAccountID, entries[1].AccountOwner)
			suite.True(entries[0].Amount.Equal(entries[1].Amount), "the pair must be balanced")
			suite.True(entries[0].Amount.Equal(decimal.NewFromInt(500)))
		}).Once()

	resp, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().NoError(err)
	suite.False(resp.AlreadyClosed)
	suite.Require().NotNil(resp.Closure)
	suite.Len(suite.publisher.eventsOfType(events.SessionClosed), 1)
	suite.mockClosureRepo.AssertExpectations(suite.T())
}

func (suite *ClosureServiceTestSuite) TestCloseSession_DeclaredDefaultsToExpected() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{CashierID: suite.cashierID}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.stubBalances(ctx, decimal.NewFromInt(100), decimal.NewFromInt(350), decimal.NewFromInt(50000), decimal.NewFromInt(50000))

	suite.mockClosureRepo.On("SaveClosure", ctx, mock.AnythingOfType("domain.ClosureTransfer"), mock.AnythingOfType("[]domain.LedgerEntry")).
		Return(nil).
		Run(func(args mock.Arguments) {
			closure := args.Get(1).(domain.ClosureTransfer)
			suite.True(closure.USD.Gap.IsZero(), "omitted declared means no discrepancy observed")
			suite.True(closure.CDF.Gap.IsZero())
			suite.True(closure.CDF.Declared.Equal(decimal.NewFromInt(50000)))

			entries := args.Get(2).([]domain.LedgerEntry)
			suite.Len(entries, 4, "both currencies carry a pair")
		}).Once()

	resp, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().NoError(err)
	suite.False(resp.AlreadyClosed)
}

func (suite *ClosureServiceTestSuite) TestCloseSession_GapRequiresNotes() {
	ctx := context.Background()
	declaredUSD := decimal.NewFromInt(90)
	req := dto.CloseSessionRequest{CashierID: suite.cashierID, DeclaredUSD: &declaredUSD}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.stubBalances(ctx, decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.Zero, decimal.Zero)

	_, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClosureRepo.AssertNotCalled(suite.T(), "SaveClosure")
}

func (suite *ClosureServiceTestSuite) TestCloseSession_EmptySessionIsNoOp() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{CashierID: suite.cashierID}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.stubBalances(ctx, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	suite.mockClosureRepo.On("FindClosureByCashierAndDate", ctx, suite.cashierID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().NoError(err)
	suite.True(resp.NothingToReconcile)
	suite.False(resp.AlreadyClosed, "a never-opened session is not a closed one")
	suite.Nil(resp.Closure)
	suite.mockClosureRepo.AssertNotCalled(suite.T(), "SaveClosure")
	suite.Empty(suite.publisher.published)
}

func (suite *ClosureServiceTestSuite) TestCloseSession_ReCloseReturnsExistingRecord() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{CashierID: suite.cashierID}
	existing := &domain.ClosureTransfer{
		ClosureID: uuid.NewString(),
		CashierID: suite.cashierID,
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	// The earlier closure already drained the balances to zero.
	suite.stubBalances(ctx, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	suite.mockClosureRepo.On("FindClosureByCashierAndDate", ctx, suite.cashierID, mock.AnythingOfType("time.Time")).
		Return(existing, nil).Once()

	resp, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().NoError(err)
	suite.True(resp.AlreadyClosed)
	suite.False(resp.NothingToReconcile)
	suite.Require().NotNil(resp.Closure)
	suite.Equal(existing.ClosureID, resp.Closure.ClosureID)
	suite.mockClosureRepo.AssertNotCalled(suite.T(), "SaveClosure")
}

func (suite *ClosureServiceTestSuite) TestCloseSession_LostRaceReturnsExistingClosure() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{CashierID: suite.cashierID}
	existing := &domain.ClosureTransfer{
		ClosureID: uuid.NewString(),
		CashierID: suite.cashierID,
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.stubBalances(ctx, decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.Zero, decimal.Zero)

	suite.mockClosureRepo.On("SaveClosure", ctx, mock.AnythingOfType("domain.ClosureTransfer"), mock.AnythingOfType("[]domain.LedgerEntry")).
		Return(apperrors.NewAppError(409, "already closed today", apperrors.ErrConflict)).Once()
	suite.mockClosureRepo.On("FindClosureByCashierAndDate", ctx, suite.cashierID, mock.AnythingOfType("time.Time")).
		Return(existing, nil).Once()

	resp, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().NoError(err)
	suite.True(resp.AlreadyClosed)
	suite.Require().NotNil(resp.Closure)
	suite.Equal(existing.ClosureID, resp.Closure.ClosureID)
	suite.Empty(suite.publisher.eventsOfType(events.SessionClosed))
}

func (suite *ClosureServiceTestSuite) TestCloseSession_NegativeExpectedIsIntegrityViolation() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{CashierID: suite.cashierID}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapCloseSessions).Return(domain.RoleRespCompta, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.mockBalanceRepo.On("GetStartingBalance", ctx, suite.cashierID, domain.USD).Return(decimal.Zero, nil).Once()
	suite.mockBalanceSvc.On("ComputeBalance", ctx, suite.cashierID, domain.USD, (*time.Time)(nil)).Return(decimal.NewFromInt(-40), nil).Once()

	_, err := suite.service.CloseSession(ctx, req, suite.supervisorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
	suite.mockClosureRepo.AssertNotCalled(suite.T(), "SaveClosure")
}

func (suite *ClosureServiceTestSuite) TestCloseSession_CashierCanCloseOwnSession() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapRecordEntries).Return(domain.RoleCaissier, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.cashierID).Return(suite.cashier, nil).Once()
	suite.stubBalances(ctx, decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	suite.mockClosureRepo.On("SaveClosure", ctx, mock.AnythingOfType("domain.ClosureTransfer"), mock.AnythingOfType("[]domain.LedgerEntry")).Return(nil).Once()

	resp, err := suite.service.CloseSession(ctx, req, suite.cashierID)

	suite.Require().NoError(err)
	suite.False(resp.AlreadyClosed)
	suite.Equal(suite.cashierID, resp.Closure.CashierID)
}

func (suite *ClosureServiceTestSuite) TestGetClosure_CashierCannotReadOthers() {
	ctx := context.Background()
	otherCashier := uuid.NewString()

	suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapRecordEntries).Return(domain.RoleCaissier, nil).Once()

	_, err := suite.service.GetClosure(ctx, otherCashier, time.Now().UTC(), suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockClosureRepo.AssertNotCalled(suite.T(), "FindClosureByCashierAndDate")
}

func TestClosureServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClosureServiceTestSuite))
}

package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/core/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo *MockEntryRepository
	mockAuthzSvc  *MockAuthzService
	publisher     *recordingPublisher
	service       portssvc.EntrySvcFacade
	cashierID     string
	supervisorID  string
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAuthzSvc = new(MockAuthzService)
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockAuthzSvc, suite.publisher)

	suite.cashierID = uuid.NewString()
	suite.supervisorID = uuid.NewString()
}

func (suite *EntryServiceTestSuite) TestCreateEntry_CashierRecordsPending() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		Kind:       domain.Recette,
		Currency:   domain.USD,
		Amount:     decimal.NewFromInt(150),
		ClientName: "Client A",
		Motif:      "Vente comptoir",
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapRecordEntries).Return(domain.RoleCaissier, nil).Once()
	suite.mockAuthzSvc.On("AutoValidates", domain.RoleCaissier).Return(false).Once()

	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), "ACHAM").
		Return(&domain.LedgerEntry{EntryID: "ACHAM-20250131-001", AccountOwner: suite.cashierID, Status: domain.Enregistre, Kind: domain.Recette, Currency: domain.USD}, nil).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.LedgerEntry)
			suite.Equal(domain.Enregistre, entry.Status)
			suite.Equal(suite.cashierID, entry.AccountOwner)
			suite.Equal(suite.cashierID, entry.CreatedBy)
			suite.NotEmpty(entry.ID)
		}).Once()

	created, err := suite.service.CreateEntry(ctx, req, suite.cashierID)

	suite.Require().NoError(err)
	suite.Equal(domain.Enregistre, created.Status)
	suite.Len(suite.publisher.eventsOfType(events.EntryCreated), 1)
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockAuthzSvc.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_SupervisorAutoValidates() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		Kind:     domain.Depense,
		Currency: domain.CDF,
		Amount:   decimal.NewFromInt(20000),
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapRecordEntries).Return(domain.RoleRespCompta, nil).Once()
	suite.mockAuthzSvc.On("AutoValidates", domain.RoleRespCompta).Return(true).Once()

	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), "ACHAM").
		Return(&domain.LedgerEntry{EntryID: "ACHAM-20250131-002", Status: domain.Valide}, nil).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.LedgerEntry)
			suite.Equal(domain.Valide, entry.Status)
		}).Once()

	created, err := suite.service.CreateEntry(ctx, req, suite.supervisorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Valide, created.Status)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_LogisticsGetsLogPrefix() {
	ctx := context.Background()
	logisticianID := uuid.NewString()
	req := dto.CreateEntryRequest{
		Kind:     domain.Depense,
		Currency: domain.USD,
		Amount:   decimal.NewFromInt(75),
	}

	suite.mockAuthzSvc.On("Authorize", ctx, logisticianID, domain.CapRecordEntries).Return(domain.RoleLogistique, nil).Once()
	suite.mockAuthzSvc.On("AutoValidates", domain.RoleLogistique).Return(false).Once()

	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), "LOG").
		Return(&domain.LedgerEntry{EntryID: "LOG-20250131-001", Status: domain.Enregistre, Source: domain.SourceLogistique}, nil).Once()

	created, err := suite.service.CreateEntry(ctx, req, logisticianID)

	suite.Require().NoError(err)
	suite.Equal(domain.SourceLogistique, created.Source)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_RejectsNonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		req := dto.CreateEntryRequest{Kind: domain.Recette, Currency: domain.USD, Amount: amount}
		suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapRecordEntries).Return(domain.RoleCaissier, nil).Once()

		_, err := suite.service.CreateEntry(ctx, req, suite.cashierID)

		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *EntryServiceTestSuite) TestCreateEntry_OtherAccountRequiresSupervisor() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		Kind:         domain.Recette,
		Currency:     domain.USD,
		Amount:       decimal.NewFromInt(50),
		AccountOwner: uuid.NewString(),
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapRecordEntries).Return(domain.RoleCaissier, nil).Once()
	suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapAssignOpening).
		Return(domain.Role(""), apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.cashierID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *EntryServiceTestSuite) TestValidateEntry_Success() {
	ctx := context.Background()
	entryID := "ACHAM-20250131-003"
	resolved := &domain.LedgerEntry{
		EntryID:      entryID,
		AccountOwner: suite.cashierID,
		Currency:     domain.USD,
		Status:       domain.Valide,
	}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapValidateEntries).Return(domain.RoleRespCompta, nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatus", ctx, entryID, domain.Enregistre, domain.Valide, suite.supervisorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(resolved, nil).Once()

	entry, err := suite.service.ValidateEntry(ctx, entryID, suite.supervisorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Valide, entry.Status)
	suite.Len(suite.publisher.eventsOfType(events.EntryValidated), 1)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestValidateEntry_AlreadyResolvedConflict() {
	ctx := context.Background()
	entryID := "ACHAM-20250131-004"

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapValidateEntries).Return(domain.RoleRespCompta, nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatus", ctx, entryID, domain.Enregistre, domain.Valide, suite.supervisorID, mock.AnythingOfType("time.Time")).
		Return(apperrors.NewAppError(409, "entry is not in status ENREGISTRE", apperrors.ErrConflict)).Once()

	_, err := suite.service.ValidateEntry(ctx, entryID, suite.supervisorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Empty(suite.publisher.published)
}

func (suite *EntryServiceTestSuite) TestRejectEntry_ExcludedWithoutDeletion() {
	ctx := context.Background()
	entryID := "LOG-20250131-002"
	resolved := &domain.LedgerEntry{EntryID: entryID, Status: domain.Rejete}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.supervisorID, domain.CapValidateEntries).Return(domain.RoleRespCompta, nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatus", ctx, entryID, domain.Enregistre, domain.Rejete, suite.supervisorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(resolved, nil).Once()

	entry, err := suite.service.RejectEntry(ctx, entryID, suite.supervisorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Rejete, entry.Status)
	suite.Len(suite.publisher.eventsOfType(events.EntryRejected), 1)
}

func (suite *EntryServiceTestSuite) TestListEntries_CashierPinnedToOwnAccount() {
	ctx := context.Background()
	otherOwner := uuid.NewString()
	params := dto.ListEntriesParams{AccountOwner: otherOwner, Limit: 10}

	suite.mockAuthzSvc.On("Authorize", ctx, suite.cashierID, domain.CapRecordEntries).Return(domain.RoleCaissier, nil).Once()
	suite.mockEntryRepo.On("ListEntries", ctx, mock.MatchedBy(func(p portsrepo.ListEntriesParams) bool {
		return p.AccountOwner != nil && *p.AccountOwner == suite.cashierID
	})).Return([]domain.LedgerEntry{}, nil, nil).Once()

	_, err := suite.service.ListEntries(ctx, params, suite.cashierID)

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}

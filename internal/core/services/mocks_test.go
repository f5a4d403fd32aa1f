package services_test

import (
	"context"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, idPrefix string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry, idPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) SaveEntryPair(ctx context.Context, out domain.LedgerEntry, in domain.LedgerEntry) error {
	args := m.Called(ctx, out, in)
	return args.Error(0)
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, params portsrepo.ListEntriesParams) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), nextToken, args.Error(2)
}

func (m *MockEntryRepository) UpdateEntryStatus(ctx context.Context, id string, from, to domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, id, from, to, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock BalanceRepository ---
type MockBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.BalanceRepositoryFacade = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) GetStartingBalance(ctx context.Context, accountOwner string, currency domain.Currency) (decimal.Decimal, error) {
	args := m.Called(ctx, accountOwner, currency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceRepository) GetStartingBalances(ctx context.Context, accountOwner string) (map[domain.Currency]decimal.Decimal, error) {
	args := m.Called(ctx, accountOwner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Currency]decimal.Decimal), args.Error(1)
}

func (m *MockBalanceRepository) SumValidatedEntries(ctx context.Context, accountOwner string, currency domain.Currency, asOf *time.Time) (portsrepo.BalanceSums, error) {
	args := m.Called(ctx, accountOwner, currency, asOf)
	return args.Get(0).(portsrepo.BalanceSums), args.Error(1)
}

func (m *MockBalanceRepository) SaveOpening(ctx context.Context, balance domain.StartingBalance, entry domain.LedgerEntry) error {
	args := m.Called(ctx, balance, entry)
	return args.Error(0)
}

// --- Mock ClosureRepository ---
type MockClosureRepository struct {
	mock.Mock
}

var _ portsrepo.ClosureRepositoryFacade = (*MockClosureRepository)(nil)

func (m *MockClosureRepository) SaveClosure(ctx context.Context, closure domain.ClosureTransfer, transferEntries []domain.LedgerEntry) error {
	args := m.Called(ctx, closure, transferEntries)
	return args.Error(0)
}

func (m *MockClosureRepository) FindClosureByCashierAndDate(ctx context.Context, cashierID string, day time.Time) (*domain.ClosureTransfer, error) {
	args := m.Called(ctx, cashierID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosureTransfer), args.Error(1)
}

func (m *MockClosureRepository) ListClosures(ctx context.Context, limit int, nextToken *string) ([]domain.ClosureTransfer, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.ClosureTransfer), returnedNextToken, args.Error(2)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Mock AuthzService ---
type MockAuthzService struct {
	mock.Mock
}

var _ portssvc.AuthzSvcFacade = (*MockAuthzService)(nil)

func (m *MockAuthzService) Authorize(ctx context.Context, userID string, capability domain.Capability) (domain.Role, error) {
	args := m.Called(ctx, userID, capability)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockAuthzService) AutoValidates(role domain.Role) bool {
	args := m.Called(role)
	return args.Bool(0)
}

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

func (m *MockBalanceService) ComputeBalance(ctx context.Context, accountOwner string, currency domain.Currency, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountOwner, currency, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) ComputeBalances(ctx context.Context, accountOwner string, asOf *time.Time) (map[domain.Currency]decimal.Decimal, error) {
	args := m.Called(ctx, accountOwner, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Currency]decimal.Decimal), args.Error(1)
}

// --- Recording event publisher ---

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	published []events.Event
}

var _ events.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(evt events.Event) {
	p.published = append(p.published, evt)
}

func (p *recordingPublisher) eventsOfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, evt := range p.published {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

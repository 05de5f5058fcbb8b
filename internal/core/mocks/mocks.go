package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserSummary), args.Error(1)
}

func (m *MockUserRepository) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, userID uuid.UUID, isActive bool) error {
	args := m.Called(ctx, userID, isActive)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	args := m.Called(ctx, userID, hashedPassword)
	return args.Error(0)
}

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProgressRepository is a mock implementation of ports.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func NewMockProgressRepository() *MockProgressRepository {
	return &MockProgressRepository{}
}

func (m *MockProgressRepository) Create(ctx context.Context, update *domain.ProgressUpdate) (*domain.ProgressUpdate, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressUpdate), args.Error(1)
}

func (m *MockProgressRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]*domain.ProgressUpdate, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProgressUpdate), args.Error(1)
}

// MockTechnicianRepository is a mock implementation of ports.TechnicianRepository
type MockTechnicianRepository struct {
	mock.Mock
}

func NewMockTechnicianRepository() *MockTechnicianRepository {
	return &MockTechnicianRepository{}
}

func (m *MockTechnicianRepository) Create(ctx context.Context, technician *domain.Technician) (*domain.Technician, error) {
	args := m.Called(ctx, technician)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Technician, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) Update(ctx context.Context, technician *domain.Technician) (*domain.Technician, error) {
	args := m.Called(ctx, technician)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of ports.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

func (m *MockSettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetDropdown(ctx context.Context, name string) (domain.DropdownSet, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.DropdownSet), args.Error(1)
}

func (m *MockSettingsRepository) SaveDropdown(ctx context.Context, set domain.DropdownSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockSettingsRepository) ListDropdowns(ctx context.Context) ([]domain.DropdownSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DropdownSet), args.Error(1)
}

// MockSettingsCache is a mock implementation of ports.SettingsCache
type MockSettingsCache struct {
	mock.Mock
}

func NewMockSettingsCache() *MockSettingsCache {
	return &MockSettingsCache{}
}

func (m *MockSettingsCache) Get(ctx context.Context) (domain.Settings, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Bool(1), args.Error(2)
}

func (m *MockSettingsCache) Put(ctx context.Context, settings domain.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsCache) GetDropdown(ctx context.Context, name string) (domain.DropdownSet, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.DropdownSet), args.Bool(1), args.Error(2)
}

func (m *MockSettingsCache) PutDropdown(ctx context.Context, set domain.DropdownSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of ports.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{}
}

func (m *MockReportRepository) StatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockReportRepository) CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryPerformance), args.Error(1)
}

func (m *MockReportRepository) DailyTraffic(ctx context.Context, days int) ([]domain.TrafficPoint, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrafficPoint), args.Error(1)
}

func (m *MockReportRepository) TotalTickets(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuthorizationService is a mock implementation of ports.AuthorizationService
type MockAuthorizationService struct {
	mock.Mock
}

func NewMockAuthorizationService() *MockAuthorizationService {
	return &MockAuthorizationService{}
}

func (m *MockAuthorizationService) Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizationService) RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Role), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.ChangeEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockSettingsService is a mock implementation of ports.SettingsService
type MockSettingsService struct {
	mock.Mock
}

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{}
}

func (m *MockSettingsService) Resolve(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) UpdateThresholds(ctx context.Context, actorID uuid.UUID, thresholds domain.Thresholds) (domain.Settings, error) {
	args := m.Called(ctx, actorID, thresholds)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) UpdateCategoryTargets(ctx context.Context, actorID uuid.UUID, targets map[string]float64) (domain.Settings, error) {
	args := m.Called(ctx, actorID, targets)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) Dropdown(ctx context.Context, name string) (domain.DropdownSet, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.DropdownSet), args.Error(1)
}

func (m *MockSettingsService) UpdateDropdown(ctx context.Context, actorID uuid.UUID, set domain.DropdownSet) (domain.DropdownSet, error) {
	args := m.Called(ctx, actorID, set)
	return args.Get(0).(domain.DropdownSet), args.Error(1)
}

// MockUserLookupService is a mock implementation of ports.UserLookupService
type MockUserLookupService struct {
	mock.Mock
}

func NewMockUserLookupService() *MockUserLookupService {
	return &MockUserLookupService{}
}

func (m *MockUserLookupService) GetUserInfo(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.UserInfo, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.UserInfo), args.Error(1)
}

// MockChangefeedService is a mock implementation of ports.ChangefeedService
type MockChangefeedService struct {
	mock.Mock
}

func NewMockChangefeedService() *MockChangefeedService {
	return &MockChangefeedService{}
}

func (m *MockChangefeedService) Notify(table domain.ChangeTable) {
	m.Called(table)
}

func (m *MockChangefeedService) LastSeq(table domain.ChangeTable) uint64 {
	args := m.Called(table)
	return args.Get(0).(uint64)
}

package notification

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/notification"
	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/domain/procurement"
)

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID int64, filter notification.ListFilter) ([]notification.Notification, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID int64, at time.Time) error {
	args := m.Called(ctx, id, userID, at)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) ExistsSince(ctx context.Context, userID int64, typ notification.Type, link string, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, typ, link, since)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of organization.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*organization.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.User), args.Error(1)
}

func (m *MockUserRepository) FindByStoreAndRoles(ctx context.Context, storeID int64, roles ...organization.Role) ([]organization.User, error) {
	args := m.Called(ctx, storeID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]organization.User), args.Error(1)
}

// MockStoreRepository is a mock implementation of organization.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id int64) (*organization.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAllActive(ctx context.Context) ([]organization.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]organization.Store), args.Error(1)
}

// MockPRRepository mocks the dashboard queries of procurement.PurchaseRequisitionRepository
type MockPRRepository struct {
	mock.Mock
	procurement.PurchaseRequisitionRepository
}

func (m *MockPRRepository) ListReceivableDueBy(ctx context.Context, storeID *int64, until time.Time) ([]procurement.DeliveryRow, error) {
	args := m.Called(ctx, storeID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.DeliveryRow), args.Error(1)
}

// MockStoreItemRepository mocks the reorder query of inventory.StoreItemRepository
type MockStoreItemRepository struct {
	mock.Mock
	inventory.StoreItemRepository
}

func (m *MockStoreItemRepository) FindBelowReorderPoint(ctx context.Context, storeID *int64) ([]inventory.StoreItem, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StoreItem), args.Error(1)
}

// MockMasterItemRepository is a mock implementation of catalog.MasterItemRepository
type MockMasterItemRepository struct {
	mock.Mock
}

func (m *MockMasterItemRepository) FindByID(ctx context.Context, id int64) (*catalog.MasterItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.MasterItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.MasterItem, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MasterItem), args.Error(1)
}

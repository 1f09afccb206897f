package inventory

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wms/backend/internal/domain/inventory"
)

// MockStoreItemRepository is a mock implementation of StoreItemRepository
type MockStoreItemRepository struct {
	mock.Mock
}

func (m *MockStoreItemRepository) FindByID(ctx context.Context, id int64) (*inventory.StoreItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreItem), args.Error(1)
}

func (m *MockStoreItemRepository) FindByStoreAndMasterItem(ctx context.Context, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	args := m.Called(ctx, storeID, masterItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreItem), args.Error(1)
}

func (m *MockStoreItemRepository) GetOrCreate(ctx context.Context, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	args := m.Called(ctx, storeID, masterItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreItem), args.Error(1)
}

func (m *MockStoreItemRepository) FindByStore(ctx context.Context, storeID int64) ([]inventory.StoreItem, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]inventory.StoreItem), args.Error(1)
}

func (m *MockStoreItemRepository) FindBelowReorderPoint(ctx context.Context, storeID *int64) ([]inventory.StoreItem, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]inventory.StoreItem), args.Error(1)
}

func (m *MockStoreItemRepository) Save(ctx context.Context, item *inventory.StoreItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockLotRepository is a mock implementation of InventoryLotRepository
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) FindByStoreItem(ctx context.Context, storeItemID int64) ([]inventory.InventoryLot, error) {
	args := m.Called(ctx, storeItemID)
	return args.Get(0).([]inventory.InventoryLot), args.Error(1)
}

func (m *MockLotRepository) FindByPR(ctx context.Context, prID int64) ([]inventory.InventoryLot, error) {
	args := m.Called(ctx, prID)
	return args.Get(0).([]inventory.InventoryLot), args.Error(1)
}

// MockTransactionRepository is a mock implementation of StockTransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *inventory.StockTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByStoreItem(ctx context.Context, storeItemID int64, limit int) ([]inventory.StockTransaction, error) {
	args := m.Called(ctx, storeItemID, limit)
	return args.Get(0).([]inventory.StockTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumSignedQuantity(ctx context.Context, storeItemID int64) (int, error) {
	args := m.Called(ctx, storeItemID)
	return args.Int(0), args.Error(1)
}

package inventory

import (
	"context"
)

// StoreItemRepository defines the interface for store item persistence
type StoreItemRepository interface {
	// FindByID finds a store item by its ID
	FindByID(ctx context.Context, id int64) (*StoreItem, error)

	// FindByStoreAndMasterItem finds the store item of a store/master item pair
	FindByStoreAndMasterItem(ctx context.Context, storeID, masterItemID int64) (*StoreItem, error)

	// GetOrCreate returns the existing store item or creates one with zero quantity
	GetOrCreate(ctx context.Context, storeID, masterItemID int64) (*StoreItem, error)

	// FindByStore lists the store items of a store
	FindByStore(ctx context.Context, storeID int64) ([]StoreItem, error)

	// FindBelowReorderPoint lists active items at or below their reorder point.
	// A nil storeID searches all stores.
	FindBelowReorderPoint(ctx context.Context, storeID *int64) ([]StoreItem, error)

	// Save persists quantity and policy changes
	Save(ctx context.Context, item *StoreItem) error
}

// InventoryLotRepository defines the interface for lot persistence.
// Lots are never updated by the receipt flow.
type InventoryLotRepository interface {
	// Create inserts a lot and assigns its ID
	Create(ctx context.Context, lot *InventoryLot) error

	// FindByStoreItem lists lots of a store item, oldest first
	FindByStoreItem(ctx context.Context, storeItemID int64) ([]InventoryLot, error)

	// FindByPR lists lots received against a PR
	FindByPR(ctx context.Context, prID int64) ([]InventoryLot, error)
}

// StockTransactionRepository is an append-only store of stock movements
type StockTransactionRepository interface {
	// Create appends a transaction
	Create(ctx context.Context, txn *StockTransaction) error

	// FindByStoreItem lists transactions of a store item, newest first
	FindByStoreItem(ctx context.Context, storeItemID int64, limit int) ([]StockTransaction, error)

	// SumSignedQuantity returns additive minus subtractive quantities of a store item
	SumSignedQuantity(ctx context.Context, storeItemID int64) (int, error)
}

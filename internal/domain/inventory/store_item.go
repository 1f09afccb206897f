package inventory

import (
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// StoreItem is the quantity-on-hand record for one master item at one store.
// Quantity changes only through IncreaseStock so that it always equals the
// signed sum of the item's stock transactions. Every mutator bumps the
// version once, so callers save after each one.
type StoreItem struct {
	shared.BaseAggregateRoot
	StoreID         int64
	MasterItemID    int64
	Quantity        int
	MinQuantity     int
	ReorderPoint    int
	ReorderQuantity int
	SafetyStock     int
	LeadTimeDays    int
	LocationZone    string
	LocationShelf   string
	IsActive        bool
}

// NewStoreItem creates an empty store item for the store/master item pair
func NewStoreItem(storeID, masterItemID int64) (*StoreItem, error) {
	if storeID <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID is required")
	}
	if masterItemID <= 0 {
		return nil, shared.NewDomainError("INVALID_MASTER_ITEM", "Master item ID is required")
	}

	return &StoreItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		MasterItemID:      masterItemID,
		Quantity:          0,
		IsActive:          true,
	}, nil
}

// IncreaseStock adds received quantity to the store item
func (s *StoreItem) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	s.Quantity += quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetReorderPolicy updates the replenishment thresholds
func (s *StoreItem) SetReorderPolicy(minQuantity, reorderPoint, reorderQuantity, safetyStock, leadTimeDays int) error {
	if minQuantity < 0 || reorderPoint < 0 || reorderQuantity < 0 || safetyStock < 0 || leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_REORDER_POLICY", "Reorder thresholds cannot be negative")
	}

	s.MinQuantity = minQuantity
	s.ReorderPoint = reorderPoint
	s.ReorderQuantity = reorderQuantity
	s.SafetyStock = safetyStock
	s.LeadTimeDays = leadTimeDays
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsBelowReorderPoint returns true when stock has dropped to the reorder point.
// Items without a reorder point never trigger.
func (s *StoreItem) IsBelowReorderPoint() bool {
	return s.IsActive && s.ReorderPoint > 0 && s.Quantity <= s.ReorderPoint
}

// SuggestedReorderQuantity returns how much to order to get back above the reorder point
func (s *StoreItem) SuggestedReorderQuantity() int {
	if !s.IsBelowReorderPoint() {
		return 0
	}
	if s.ReorderQuantity > 0 {
		return s.ReorderQuantity
	}
	return s.ReorderPoint + s.SafetyStock - s.Quantity
}

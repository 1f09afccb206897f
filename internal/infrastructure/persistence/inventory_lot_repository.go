package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormInventoryLotRepository implements InventoryLotRepository using GORM
type GormInventoryLotRepository struct {
	db *gorm.DB
}

// NewGormInventoryLotRepository creates a new GormInventoryLotRepository
func NewGormInventoryLotRepository(db *gorm.DB) *GormInventoryLotRepository {
	return &GormInventoryLotRepository{db: db}
}

// Create inserts a lot and assigns its ID
func (r *GormInventoryLotRepository) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	model := models.InventoryLotModelFromDomain(lot)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	lot.ID = model.ID
	return nil
}

// FindByStoreItem lists the lots of a store item, oldest first
func (r *GormInventoryLotRepository) FindByStoreItem(ctx context.Context, storeItemID int64) ([]inventory.InventoryLot, error) {
	return r.list(r.db.WithContext(ctx).Where("store_item_id = ?", storeItemID))
}

// FindByPR lists the lots received against a PR
func (r *GormInventoryLotRepository) FindByPR(ctx context.Context, prID int64) ([]inventory.InventoryLot, error) {
	return r.list(r.db.WithContext(ctx).Where("pr_id = ?", prID))
}

func (r *GormInventoryLotRepository) list(query *gorm.DB) ([]inventory.InventoryLot, error) {
	var rows []models.InventoryLotModel
	if err := query.Order("received_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.InventoryLot, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ inventory.InventoryLotRepository = (*GormInventoryLotRepository)(nil)

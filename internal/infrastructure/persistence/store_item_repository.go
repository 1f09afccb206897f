package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormStoreItemRepository implements StoreItemRepository using GORM
type GormStoreItemRepository struct {
	db *gorm.DB
}

// NewGormStoreItemRepository creates a new GormStoreItemRepository
func NewGormStoreItemRepository(db *gorm.DB) *GormStoreItemRepository {
	return &GormStoreItemRepository{db: db}
}

// FindByID finds a store item by its ID
func (r *GormStoreItemRepository) FindByID(ctx context.Context, id int64) (*inventory.StoreItem, error) {
	var model models.StoreItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByStoreAndMasterItem finds the stock row of a catalog item in a store
func (r *GormStoreItemRepository) FindByStoreAndMasterItem(ctx context.Context, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	return r.findByStoreAndMasterItem(r.db.WithContext(ctx), storeID, masterItemID)
}

func (r *GormStoreItemRepository) findByStoreAndMasterItem(db *gorm.DB, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	var model models.StoreItemModel
	err := db.Where("store_id = ? AND master_item_id = ?", storeID, masterItemID).
		First(&model).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// GetOrCreate returns the locked store item for the pair, inserting an empty one
// first when the store never stocked the item. Concurrent inserts of the same
// pair collapse onto the unique index.
func (r *GormStoreItemRepository) GetOrCreate(ctx context.Context, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	db := r.db.WithContext(ctx)
	item, err := r.findByStoreAndMasterItem(forUpdate(db), storeID, masterItemID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewStoreItem(storeID, masterItemID)
	if err != nil {
		return nil, err
	}
	model := models.StoreItemModelFromDomain(fresh)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "master_item_id"}},
		DoNothing: true,
	}).Create(model).Error
	if err != nil {
		return nil, err
	}
	return r.findByStoreAndMasterItem(forUpdate(db), storeID, masterItemID)
}

// FindByStore lists every stock row of a store
func (r *GormStoreItemRepository) FindByStore(ctx context.Context, storeID int64) ([]inventory.StoreItem, error) {
	var rows []models.StoreItemModel
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toStoreItems(rows), nil
}

// FindBelowReorderPoint lists active rows at or below their reorder point.
// A nil storeID spans all stores.
func (r *GormStoreItemRepository) FindBelowReorderPoint(ctx context.Context, storeID *int64) ([]inventory.StoreItem, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ? AND reorder_point > 0 AND quantity <= reorder_point", true)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var rows []models.StoreItemModel
	if err := query.Order("store_id ASC, quantity ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStoreItems(rows), nil
}

// Save inserts a new store item or updates an existing one under its version
func (r *GormStoreItemRepository) Save(ctx context.Context, item *inventory.StoreItem) error {
	model := models.StoreItemModelFromDomain(item)
	if item.ID == 0 {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		item.ID = model.ID
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.StoreItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"quantity":         model.Quantity,
			"min_quantity":     model.MinQuantity,
			"reorder_point":    model.ReorderPoint,
			"reorder_quantity": model.ReorderQuantity,
			"safety_stock":     model.SafetyStock,
			"lead_time_days":   model.LeadTimeDays,
			"location_zone":    model.LocationZone,
			"location_shelf":   model.LocationShelf,
			"is_active":        model.IsActive,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleVersion("Store item")
	}
	return nil
}

func toStoreItems(rows []models.StoreItemModel) []inventory.StoreItem {
	out := make([]inventory.StoreItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ inventory.StoreItemRepository = (*GormStoreItemRepository)(nil)

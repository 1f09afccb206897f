package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormMasterItemRepository implements MasterItemRepository using GORM
type GormMasterItemRepository struct {
	db *gorm.DB
}

// NewGormMasterItemRepository creates a new GormMasterItemRepository
func NewGormMasterItemRepository(db *gorm.DB) *GormMasterItemRepository {
	return &GormMasterItemRepository{db: db}
}

// FindByID finds a catalog item by its ID
func (r *GormMasterItemRepository) FindByID(ctx context.Context, id int64) (*catalog.MasterItem, error) {
	var model models.MasterItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds catalog items by their IDs. Unknown IDs are left out.
func (r *GormMasterItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.MasterItem, error) {
	if len(ids) == 0 {
		return []catalog.MasterItem{}, nil
	}

	var rows []models.MasterItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.MasterItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindBySKU finds a catalog item by its SKU
func (r *GormMasterItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.MasterItem, error) {
	var model models.MasterItemModel
	if err := r.db.WithContext(ctx).First(&model, "sku = ?", strings.TrimSpace(sku)).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id int64) (*organization.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllActive lists active stores by name
func (r *GormStoreRepository) FindAllActive(ctx context.Context) ([]organization.Store, error) {
	var rows []models.StoreModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]organization.Store, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*organization.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByStoreAndRoles lists active users of the store holding one of the roles.
// Admins are global: store-less admins match every store.
func (r *GormUserRepository) FindByStoreAndRoles(ctx context.Context, storeID int64, roles ...organization.Role) ([]organization.User, error) {
	if len(roles) == 0 {
		return []organization.User{}, nil
	}
	names := make([]string, len(roles))
	includeAdmins := false
	for i, role := range roles {
		names[i] = string(role)
		if role == organization.RoleAdmin {
			includeAdmins = true
		}
	}

	query := r.db.WithContext(ctx).Where("is_active = ? AND role IN ?", true, names)
	if includeAdmins {
		query = query.Where("(store_id = ? OR (store_id IS NULL AND role = ?))", storeID, string(organization.RoleAdmin))
	} else {
		query = query.Where("store_id = ?", storeID)
	}

	var rows []models.UserModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]organization.User, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ catalog.MasterItemRepository = (*GormMasterItemRepository)(nil)
	_ organization.StoreRepository = (*GormStoreRepository)(nil)
	_ organization.UserRepository  = (*GormUserRepository)(nil)
)

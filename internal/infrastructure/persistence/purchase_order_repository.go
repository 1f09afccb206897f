package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByNumberAndPR finds the PO recorded for a PR under a PO number
func (r *GormPurchaseOrderRepository) FindByNumberAndPR(ctx context.Context, poNumber string, prID int64) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Where("po_number = ? AND pr_id = ?", poNumber, prID).
		First(&model).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Save inserts a new PO or updates an existing one under its version
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	if po.ID == 0 {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		po.ID = model.ID
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("id = ? AND version = ?", po.ID, po.Version-1).
		Updates(map[string]any{
			"supplier_name":          model.SupplierName,
			"supplier_contact":       model.SupplierContact,
			"status":                 model.Status,
			"actual_delivery_date":   model.ActualDeliveryDate,
			"expected_delivery_date": model.ExpectedDeliveryDate,
			"notes":                  model.Notes,
			"version":                model.Version,
			"updated_at":             model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleVersion("Purchase order " + po.PONumber)
	}
	return nil
}

// ListByPR lists a PR's purchase orders, newest first
func (r *GormPurchaseOrderRepository) ListByPR(ctx context.Context, prID int64) ([]procurement.PurchaseOrder, error) {
	var rows []models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Where("pr_id = ?", prID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]procurement.PurchaseOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

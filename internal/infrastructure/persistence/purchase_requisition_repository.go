package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// receivableStatuses are the PR statuses goods can still arrive for
var receivableStatuses = []string{
	string(procurement.PRStatusApproved),
	string(procurement.PRStatusOrdered),
	string(procurement.PRStatusPartiallyReceived),
}

// GormPurchaseRequisitionRepository implements PurchaseRequisitionRepository using GORM
type GormPurchaseRequisitionRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequisitionRepository creates a new GormPurchaseRequisitionRepository
func NewGormPurchaseRequisitionRepository(db *gorm.DB) *GormPurchaseRequisitionRepository {
	return &GormPurchaseRequisitionRepository{db: db}
}

// Create inserts the PR header and its lines, then copies the assigned IDs back
func (r *GormPurchaseRequisitionRepository) Create(ctx context.Context, pr *procurement.PurchaseRequisition) error {
	model := models.PurchaseRequisitionModelFromDomain(pr)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	pr.ID = model.ID
	for i := range pr.Items {
		pr.Items[i].ID = model.Items[i].ID
		pr.Items[i].PRID = model.ID
	}
	return nil
}

// FindByID loads a PR with its lines
func (r *GormPurchaseRequisitionRepository) FindByID(ctx context.Context, id int64) (*procurement.PurchaseRequisition, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindForUpdate loads a PR with its lines and locks the header row
func (r *GormPurchaseRequisitionRepository) FindForUpdate(ctx context.Context, id int64) (*procurement.PurchaseRequisition, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormPurchaseRequisitionRepository) find(db *gorm.DB, id int64) (*procurement.PurchaseRequisition, error) {
	var model models.PurchaseRequisitionModel
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Save writes the header with a version check, then the status and received
// quantity of every line. Lines are never inserted or deleted here.
func (r *GormPurchaseRequisitionRepository) Save(ctx context.Context, pr *procurement.PurchaseRequisition) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.PurchaseRequisitionModel{}).
		Where("id = ? AND version = ?", pr.ID, pr.Version-1).
		Updates(map[string]any{
			"status":           string(pr.Status),
			"supplier_name":    pr.SupplierName,
			"supplier_contact": pr.SupplierContact,
			"notes":            pr.Notes,
			"approved_by":      pr.ApprovedBy,
			"approved_at":      pr.ApprovedAt,
			"version":          pr.Version,
			"updated_at":       pr.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleVersion("Purchase requisition " + pr.PRNumber)
	}

	for i := range pr.Items {
		item := &pr.Items[i]
		err := db.Model(&models.PRItemModel{}).
			Where("id = ? AND pr_id = ?", item.ID, pr.ID).
			Updates(map[string]any{
				"status":            string(item.Status),
				"received_quantity": item.ReceivedQuantity,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// prRow is the flattened header row of the list and detail queries
type prRow struct {
	models.PurchaseRequisitionModel
	StoreName      string
	DepartmentName string
	RequesterName  string
	ApproverName   string
	ItemCount      int
	EstimatedTotal decimal.Decimal
}

// joined is the PR table joined with its store, department and users
func (r *GormPurchaseRequisitionRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("purchase_requisitions AS pr").
		Joins("LEFT JOIN stores s ON s.id = pr.store_id").
		Joins("LEFT JOIN departments d ON d.id = s.department_id").
		Joins("LEFT JOIN users ru ON ru.id = pr.requester_id").
		Joins("LEFT JOIN users au ON au.id = pr.approved_by")
}

// headerQuery selects PR headers with display names
func (r *GormPurchaseRequisitionRepository) headerQuery(ctx context.Context) *gorm.DB {
	return r.joined(ctx).Select(`pr.*,
		COALESCE(s.name, '') AS store_name,
		COALESCE(d.name, '') AS department_name,
		COALESCE(NULLIF(ru.full_name, ''), ru.username, '') AS requester_name,
		COALESCE(NULLIF(au.full_name, ''), au.username, '') AS approver_name`)
}

// summaryQuery selects PR headers with their line count and estimated total
func (r *GormPurchaseRequisitionRepository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.joined(ctx).
		Select(`pr.*,
			COALESCE(s.name, '') AS store_name,
			COALESCE(d.name, '') AS department_name,
			COALESCE(NULLIF(ru.full_name, ''), ru.username, '') AS requester_name,
			COUNT(i.id) AS item_count,
			COALESCE(SUM(i.quantity * i.estimated_unit_cost), 0) AS estimated_total`).
		Joins("LEFT JOIN pr_items i ON i.pr_id = pr.id").
		Group("pr.id, s.name, d.name, ru.full_name, ru.username")
}

// GetDetail loads a PR with display names of its store, department, users and items
func (r *GormPurchaseRequisitionRepository) GetDetail(ctx context.Context, id int64) (*procurement.PRDetail, error) {
	var row prRow
	if err := r.headerQuery(ctx).Where("pr.id = ?", id).Take(&row).Error; err != nil {
		return nil, translateNotFound(err)
	}

	type itemRow struct {
		models.PRItemModel
		SKU         string `gorm:"column:sku"`
		ItemName    string
		Description string
		Unit        string
	}
	var items []itemRow
	err := r.db.WithContext(ctx).
		Table("pr_items AS i").
		Select(`i.*, COALESCE(m.sku, '') AS sku, COALESCE(m.name, '') AS item_name,
			COALESCE(m.description, '') AS description, COALESCE(m.unit, '') AS unit`).
		Joins("LEFT JOIN master_items m ON m.id = i.master_item_id").
		Where("i.pr_id = ?", id).
		Order("i.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	detail := &procurement.PRDetail{
		PR:             *row.PurchaseRequisitionModel.ToDomain(),
		StoreName:      row.StoreName,
		DepartmentName: row.DepartmentName,
		RequesterName:  row.RequesterName,
		ApproverName:   row.ApproverName,
		Items:          make([]procurement.PRItemDetail, len(items)),
	}
	detail.PR.Items = make([]procurement.PRItem, len(items))
	for i := range items {
		line := *items[i].PRItemModel.ToDomain()
		detail.PR.Items[i] = line
		detail.Items[i] = procurement.PRItemDetail{
			PRItem:      line,
			SKU:         items[i].SKU,
			ItemName:    items[i].ItemName,
			Description: items[i].Description,
			Unit:        items[i].Unit,
		}
	}
	return detail, nil
}

// ListByStore lists a store's PRs, newest first
func (r *GormPurchaseRequisitionRepository) ListByStore(ctx context.Context, storeID int64, filter procurement.ListFilter) ([]procurement.PRSummary, error) {
	query := r.summaryQuery(ctx).Where("pr.store_id = ?", storeID)
	if filter.Status != nil {
		query = query.Where("pr.status = ?", string(*filter.Status))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("pr.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("pr.created_at < ?", *filter.CreatedBefore)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []prRow
	if err := query.Order("pr.created_at DESC, pr.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]procurement.PRSummary, len(rows))
	for i, row := range rows {
		out[i] = procurement.PRSummary{
			ID:             row.ID,
			PRNumber:       row.PRNumber,
			StoreID:        row.StoreID,
			StoreName:      row.StoreName,
			DepartmentName: row.DepartmentName,
			RequesterID:    row.RequesterID,
			RequesterName:  row.RequesterName,
			Status:         procurement.PRStatus(row.Status),
			Priority:       procurement.Priority(row.Priority),
			RequiredDate:   row.RequiredDate,
			Notes:          row.Notes,
			ItemCount:      row.ItemCount,
			EstimatedTotal: row.EstimatedTotal,
			CreatedAt:      row.CreatedAt,
		}
	}
	return out, nil
}

// ListPendingApprovals lists pending PRs, oldest first
func (r *GormPurchaseRequisitionRepository) ListPendingApprovals(ctx context.Context, storeID *int64) ([]procurement.PendingApprovalRow, error) {
	query := r.summaryQuery(ctx).Where("pr.status = ?", string(procurement.PRStatusPending))
	if storeID != nil {
		query = query.Where("pr.store_id = ?", *storeID)
	}

	var rows []prRow
	if err := query.Order("pr.created_at ASC, pr.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]procurement.PendingApprovalRow, len(rows))
	for i, row := range rows {
		out[i] = procurement.PendingApprovalRow{
			ID:             row.ID,
			PRNumber:       row.PRNumber,
			StoreID:        row.StoreID,
			StoreName:      row.StoreName,
			RequesterID:    row.RequesterID,
			RequesterName:  row.RequesterName,
			Priority:       procurement.Priority(row.Priority),
			RequiredDate:   row.RequiredDate,
			ItemCount:      row.ItemCount,
			EstimatedTotal: row.EstimatedTotal,
			CreatedAt:      row.CreatedAt,
		}
	}
	return out, nil
}

// ListReceivableDueBy lists receivable PRs required on or before until
func (r *GormPurchaseRequisitionRepository) ListReceivableDueBy(ctx context.Context, storeID *int64, until time.Time) ([]procurement.DeliveryRow, error) {
	return r.listDeliveries(ctx, storeID, "pr.required_date <= ?", until)
}

// ListReceivableOverdue lists receivable PRs required before today
func (r *GormPurchaseRequisitionRepository) ListReceivableOverdue(ctx context.Context, storeID *int64, today time.Time) ([]procurement.DeliveryRow, error) {
	return r.listDeliveries(ctx, storeID, "pr.required_date < ?", today)
}

func (r *GormPurchaseRequisitionRepository) listDeliveries(ctx context.Context, storeID *int64, dateCond string, day time.Time) ([]procurement.DeliveryRow, error) {
	query := r.summaryQuery(ctx).
		Where("pr.status IN ?", receivableStatuses).
		Where(dateCond, day)
	if storeID != nil {
		query = query.Where("pr.store_id = ?", *storeID)
	}

	var rows []prRow
	if err := query.Order("pr.required_date ASC, pr.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]procurement.DeliveryRow, len(rows))
	for i, row := range rows {
		out[i] = procurement.DeliveryRow{
			ID:             row.ID,
			PRNumber:       row.PRNumber,
			StoreID:        row.StoreID,
			StoreName:      row.StoreName,
			RequesterID:    row.RequesterID,
			RequesterName:  row.RequesterName,
			Status:         procurement.PRStatus(row.Status),
			Priority:       procurement.Priority(row.Priority),
			RequiredDate:   row.RequiredDate,
			ItemCount:      row.ItemCount,
			EstimatedTotal: row.EstimatedTotal,
		}
	}
	return out, nil
}

// ExistsByPRNumber checks if a PR number is taken
func (r *GormPurchaseRequisitionRepository) ExistsByPRNumber(ctx context.Context, prNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseRequisitionModel{}).
		Where("pr_number = ?", prNumber).
		Count(&count).Error
	return count > 0, err
}

var _ procurement.PurchaseRequisitionRepository = (*GormPurchaseRequisitionRepository)(nil)

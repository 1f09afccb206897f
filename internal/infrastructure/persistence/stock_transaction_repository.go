package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormStockTransactionRepository implements StockTransactionRepository using GORM.
// The ledger is append-only: there is no update or delete.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Create appends a ledger row and assigns its ID
func (r *GormStockTransactionRepository) Create(ctx context.Context, txn *inventory.StockTransaction) error {
	model := models.StockTransactionModelFromDomain(txn)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	txn.ID = model.ID
	return nil
}

// FindByStoreItem lists the newest ledger rows of a store item
func (r *GormStockTransactionRepository) FindByStoreItem(ctx context.Context, storeItemID int64, limit int) ([]inventory.StockTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("store_item_id = ?", storeItemID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.StockTransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.StockTransaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SumSignedQuantity replays the ledger of a store item. Receipts and transfers
// in add, adjustments carry their own sign, everything else subtracts.
func (r *GormStockTransactionRepository) SumSignedQuantity(ctx context.Context, storeItemID int64) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.StockTransactionModel{}).
		Select(`COALESCE(SUM(CASE
			WHEN transaction_type IN (?, ?, ?) THEN quantity
			ELSE -quantity END), 0)`,
			string(inventory.TransactionTypeReceive),
			string(inventory.TransactionTypeTransferIn),
			string(inventory.TransactionTypeAdjust)).
		Where("store_item_id = ?", storeItemID).
		Scan(&total).Error
	return int(total), err
}

var _ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)

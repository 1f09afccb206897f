package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/wms/backend/internal/application/inventory"
	appproc "github.com/wms/backend/internal/application/procurement"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/procurement"
)

// GormTransactionScope runs workflow operations in one GORM transaction.
// Every repository handed to the function is bound to that transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute commits when fn succeeds and rolls back when it returns an error.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appproc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

// GormLedgerScope runs stock ledger operations in one GORM transaction.
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope.
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute commits when fn succeeds and rolls back when it returns an error.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appinv.LedgerRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

// txRepositories hands out repositories bound to one transaction.
type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) StoreItemRepo() inventory.StoreItemRepository {
	return NewGormStoreItemRepository(r.tx)
}

func (r *txRepositories) LotRepo() inventory.InventoryLotRepository {
	return NewGormInventoryLotRepository(r.tx)
}

func (r *txRepositories) TransactionRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

func (r *txRepositories) PRRepo() procurement.PurchaseRequisitionRepository {
	return NewGormPurchaseRequisitionRepository(r.tx)
}

func (r *txRepositories) PORepo() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *txRepositories) MasterItemRepo() catalog.MasterItemRepository {
	return NewGormMasterItemRepository(r.tx)
}

var (
	_ appproc.TransactionScope          = (*GormTransactionScope)(nil)
	_ appinv.TransactionScope           = (*GormLedgerScope)(nil)
	_ appproc.TransactionalRepositories = (*txRepositories)(nil)
)

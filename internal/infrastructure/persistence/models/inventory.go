package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// StoreItemModel is the persistence model for the StoreItem aggregate root
type StoreItemModel struct {
	AggregateModel
	StoreID         int64  `gorm:"not null;uniqueIndex:idx_store_items_store_master,priority:1"`
	MasterItemID    int64  `gorm:"not null;uniqueIndex:idx_store_items_store_master,priority:2"`
	Quantity        int    `gorm:"not null;default:0"`
	MinQuantity     int    `gorm:"not null;default:0"`
	ReorderPoint    int    `gorm:"not null;default:0"`
	ReorderQuantity int    `gorm:"not null;default:0"`
	SafetyStock     int    `gorm:"not null;default:0"`
	LeadTimeDays    int    `gorm:"not null;default:0"`
	LocationZone    string `gorm:"type:varchar(50)"`
	LocationShelf   string `gorm:"type:varchar(50)"`
	IsActive        bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StoreItemModel) TableName() string {
	return "store_items"
}

// ToDomain converts the persistence model to a domain StoreItem
func (m *StoreItemModel) ToDomain() *inventory.StoreItem {
	return &inventory.StoreItem{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StoreID:           m.StoreID,
		MasterItemID:      m.MasterItemID,
		Quantity:          m.Quantity,
		MinQuantity:       m.MinQuantity,
		ReorderPoint:      m.ReorderPoint,
		ReorderQuantity:   m.ReorderQuantity,
		SafetyStock:       m.SafetyStock,
		LeadTimeDays:      m.LeadTimeDays,
		LocationZone:      m.LocationZone,
		LocationShelf:     m.LocationShelf,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain StoreItem
func (m *StoreItemModel) FromDomain(s *inventory.StoreItem) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.StoreID = s.StoreID
	m.MasterItemID = s.MasterItemID
	m.Quantity = s.Quantity
	m.MinQuantity = s.MinQuantity
	m.ReorderPoint = s.ReorderPoint
	m.ReorderQuantity = s.ReorderQuantity
	m.SafetyStock = s.SafetyStock
	m.LeadTimeDays = s.LeadTimeDays
	m.LocationZone = s.LocationZone
	m.LocationShelf = s.LocationShelf
	m.IsActive = s.IsActive
}

// StoreItemModelFromDomain creates a new persistence model from a domain StoreItem
func StoreItemModelFromDomain(s *inventory.StoreItem) *StoreItemModel {
	m := &StoreItemModel{}
	m.FromDomain(s)
	return m
}

// InventoryLotModel is the persistence model for received lots. Rows are never updated
// by the receive flow.
type InventoryLotModel struct {
	BaseModel
	StoreItemID       int64           `gorm:"not null;index"`
	LotNumber         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Quantity          int             `gorm:"not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingQuantity int             `gorm:"not null"`
	ReceivedDate      time.Time       `gorm:"type:date;not null"`
	ExpiryDate        *time.Time      `gorm:"type:date"`
	PRID              *int64          `gorm:"column:pr_id;index"`
	POID              *int64          `gorm:"column:po_id;index"`
	SupplierName      string          `gorm:"type:varchar(200)"`
	InvoiceNumber     string          `gorm:"type:varchar(100)"`
	Notes             string          `gorm:"type:text"`
	Status            string          `gorm:"type:varchar(20);not null;default:active"`
}

// TableName returns the table name for GORM
func (InventoryLotModel) TableName() string {
	return "inventory_lots"
}

// ToDomain converts the persistence model to a domain InventoryLot
func (m *InventoryLotModel) ToDomain() *inventory.InventoryLot {
	return &inventory.InventoryLot{
		BaseEntity:        m.BaseModel.ToDomain(),
		StoreItemID:       m.StoreItemID,
		LotNumber:         m.LotNumber,
		Quantity:          m.Quantity,
		UnitCost:          m.UnitCost,
		TotalCost:         m.TotalCost,
		RemainingQuantity: m.RemainingQuantity,
		ReceivedDate:      shared.DateOnly(m.ReceivedDate),
		ExpiryDate:        m.ExpiryDate,
		PRID:              m.PRID,
		POID:              m.POID,
		SupplierName:      m.SupplierName,
		InvoiceNumber:     m.InvoiceNumber,
		Notes:             m.Notes,
		Status:            inventory.LotStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain InventoryLot
func (m *InventoryLotModel) FromDomain(l *inventory.InventoryLot) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.StoreItemID = l.StoreItemID
	m.LotNumber = l.LotNumber
	m.Quantity = l.Quantity
	m.UnitCost = l.UnitCost
	m.TotalCost = l.TotalCost
	m.RemainingQuantity = l.RemainingQuantity
	m.ReceivedDate = l.ReceivedDate
	m.ExpiryDate = l.ExpiryDate
	m.PRID = l.PRID
	m.POID = l.POID
	m.SupplierName = l.SupplierName
	m.InvoiceNumber = l.InvoiceNumber
	m.Notes = l.Notes
	m.Status = string(l.Status)
}

// InventoryLotModelFromDomain creates a new persistence model from a domain InventoryLot
func InventoryLotModelFromDomain(l *inventory.InventoryLot) *InventoryLotModel {
	m := &InventoryLotModel{}
	m.FromDomain(l)
	return m
}

// StockTransactionModel is the persistence model for the append-only stock ledger
type StockTransactionModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	StoreID         int64           `gorm:"not null;index"`
	StoreItemID     int64           `gorm:"not null;index:idx_stock_transactions_item_created,priority:1"`
	LotID           *int64          `gorm:"index"`
	Type            string          `gorm:"column:transaction_type;type:varchar(20);not null"`
	Quantity        int             `gorm:"not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReferenceType   string          `gorm:"type:varchar(20)"`
	ReferenceID     *int64          `gorm:"index"`
	ReferenceNumber string          `gorm:"type:varchar(100)"`
	UserID          *int64
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null;index:idx_stock_transactions_item_created,priority:2"`
}

// TableName returns the table name for GORM
func (StockTransactionModel) TableName() string {
	return "stock_transactions"
}

// ToDomain converts the persistence model to a domain StockTransaction
func (m *StockTransactionModel) ToDomain() *inventory.StockTransaction {
	return &inventory.StockTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		StoreID:         m.StoreID,
		StoreItemID:     m.StoreItemID,
		LotID:           m.LotID,
		Type:            inventory.TransactionType(m.Type),
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		ReferenceType:   inventory.ReferenceType(m.ReferenceType),
		ReferenceID:     m.ReferenceID,
		ReferenceNumber: m.ReferenceNumber,
		UserID:          m.UserID,
		Notes:           m.Notes,
	}
}

// StockTransactionModelFromDomain creates a new persistence model from a domain StockTransaction
func StockTransactionModelFromDomain(t *inventory.StockTransaction) *StockTransactionModel {
	return &StockTransactionModel{
		ID:              t.ID,
		StoreID:         t.StoreID,
		StoreItemID:     t.StoreItemID,
		LotID:           t.LotID,
		Type:            string(t.Type),
		Quantity:        t.Quantity,
		UnitCost:        t.UnitCost,
		ReferenceType:   string(t.ReferenceType),
		ReferenceID:     t.ReferenceID,
		ReferenceNumber: t.ReferenceNumber,
		UserID:          t.UserID,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
)

// PurchaseRequisitionModel is the persistence model for the PR aggregate root
type PurchaseRequisitionModel struct {
	AggregateModel
	PRNumber        string    `gorm:"column:pr_number;type:varchar(50);not null;uniqueIndex"`
	StoreID         int64     `gorm:"not null;index"`
	RequesterID     int64     `gorm:"not null;index"`
	Status          string    `gorm:"type:varchar(30);not null;default:pending;index"`
	Priority        string    `gorm:"type:varchar(20);not null;default:normal"`
	RequiredDate    time.Time `gorm:"type:date;not null;index"`
	SupplierName    string    `gorm:"type:varchar(200)"`
	SupplierContact string    `gorm:"type:varchar(200)"`
	Notes           string    `gorm:"type:text"`
	ApprovedBy      *int64    `gorm:"index"`
	ApprovedAt      *time.Time
	// Associations
	Items []PRItemModel `gorm:"foreignKey:PRID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseRequisitionModel) TableName() string {
	return "purchase_requisitions"
}

// ToDomain converts the persistence model to a domain PurchaseRequisition
func (m *PurchaseRequisitionModel) ToDomain() *procurement.PurchaseRequisition {
	pr := &procurement.PurchaseRequisition{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PRNumber:          m.PRNumber,
		StoreID:           m.StoreID,
		RequesterID:       m.RequesterID,
		Status:            procurement.PRStatus(m.Status),
		Priority:          procurement.Priority(m.Priority),
		RequiredDate:      shared.DateOnly(m.RequiredDate),
		SupplierName:      m.SupplierName,
		SupplierContact:   m.SupplierContact,
		Notes:             m.Notes,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		Items:             make([]procurement.PRItem, len(m.Items)),
	}
	for i := range m.Items {
		pr.Items[i] = *m.Items[i].ToDomain()
	}
	return pr
}

// FromDomain populates the persistence model from a domain PurchaseRequisition
func (m *PurchaseRequisitionModel) FromDomain(pr *procurement.PurchaseRequisition) {
	m.FromDomainAggregateRoot(pr.BaseAggregateRoot)
	m.PRNumber = pr.PRNumber
	m.StoreID = pr.StoreID
	m.RequesterID = pr.RequesterID
	m.Status = string(pr.Status)
	m.Priority = string(pr.Priority)
	m.RequiredDate = pr.RequiredDate
	m.SupplierName = pr.SupplierName
	m.SupplierContact = pr.SupplierContact
	m.Notes = pr.Notes
	m.ApprovedBy = pr.ApprovedBy
	m.ApprovedAt = pr.ApprovedAt
	m.Items = make([]PRItemModel, len(pr.Items))
	for i := range pr.Items {
		m.Items[i] = *PRItemModelFromDomain(&pr.Items[i])
	}
}

// PurchaseRequisitionModelFromDomain creates a new persistence model from a domain PurchaseRequisition
func PurchaseRequisitionModelFromDomain(pr *procurement.PurchaseRequisition) *PurchaseRequisitionModel {
	m := &PurchaseRequisitionModel{}
	m.FromDomain(pr)
	return m
}

// PRItemModel is the persistence model for PR lines
type PRItemModel struct {
	ID                int64           `gorm:"primaryKey;autoIncrement"`
	PRID              int64           `gorm:"column:pr_id;not null;index"`
	MasterItemID      int64           `gorm:"not null;index"`
	Quantity          int             `gorm:"not null"`
	EstimatedUnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes             string          `gorm:"type:text"`
	Status            string          `gorm:"type:varchar(20);not null;default:pending"`
	ReceivedQuantity  int             `gorm:"not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PRItemModel) TableName() string {
	return "pr_items"
}

// ToDomain converts the persistence model to a domain PRItem
func (m *PRItemModel) ToDomain() *procurement.PRItem {
	return &procurement.PRItem{
		ID:                m.ID,
		PRID:              m.PRID,
		MasterItemID:      m.MasterItemID,
		Quantity:          m.Quantity,
		EstimatedUnitCost: m.EstimatedUnitCost,
		Notes:             m.Notes,
		Status:            procurement.LineStatus(m.Status),
		ReceivedQuantity:  m.ReceivedQuantity,
		CreatedAt:         m.CreatedAt,
	}
}

// PRItemModelFromDomain creates a new persistence model from a domain PRItem
func PRItemModelFromDomain(i *procurement.PRItem) *PRItemModel {
	return &PRItemModel{
		ID:                i.ID,
		PRID:              i.PRID,
		MasterItemID:      i.MasterItemID,
		Quantity:          i.Quantity,
		EstimatedUnitCost: i.EstimatedUnitCost,
		Notes:             i.Notes,
		Status:            string(i.Status),
		ReceivedQuantity:  i.ReceivedQuantity,
		CreatedAt:         i.CreatedAt,
	}
}

// PurchaseOrderModel is the persistence model for supplier purchase orders.
// (po_number, pr_id) is unique.
type PurchaseOrderModel struct {
	AggregateModel
	PONumber             string     `gorm:"column:po_number;type:varchar(100);not null;uniqueIndex:idx_purchase_orders_number_pr,priority:1"`
	PRID                 int64      `gorm:"column:pr_id;not null;uniqueIndex:idx_purchase_orders_number_pr,priority:2"`
	StoreID              int64      `gorm:"not null;index"`
	SupplierName         string     `gorm:"type:varchar(200)"`
	SupplierContact      string     `gorm:"type:varchar(200)"`
	Status               string     `gorm:"type:varchar(20);not null;default:ordered"`
	OrderDate            *time.Time `gorm:"type:date"`
	ExpectedDeliveryDate *time.Time `gorm:"type:date"`
	ActualDeliveryDate   *time.Time `gorm:"type:date"`
	Notes                string     `gorm:"type:text"`
	CreatedBy            *int64
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	return &procurement.PurchaseOrder{
		BaseAggregateRoot:    m.ToAggregateRoot(),
		PONumber:             m.PONumber,
		PRID:                 m.PRID,
		StoreID:              m.StoreID,
		SupplierName:         m.SupplierName,
		SupplierContact:      m.SupplierContact,
		Status:               procurement.POStatus(m.Status),
		OrderDate:            m.OrderDate,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		ActualDeliveryDate:   m.ActualDeliveryDate,
		Notes:                m.Notes,
		CreatedBy:            m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder
func (m *PurchaseOrderModel) FromDomain(po *procurement.PurchaseOrder) {
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	m.PONumber = po.PONumber
	m.PRID = po.PRID
	m.StoreID = po.StoreID
	m.SupplierName = po.SupplierName
	m.SupplierContact = po.SupplierContact
	m.Status = string(po.Status)
	m.OrderDate = po.OrderDate
	m.ExpectedDeliveryDate = po.ExpectedDeliveryDate
	m.ActualDeliveryDate = po.ActualDeliveryDate
	m.Notes = po.Notes
	m.CreatedBy = po.CreatedBy
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(po *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}

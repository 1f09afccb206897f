package models

import (
	"github.com/wms/backend/internal/domain/catalog"
)

// MasterItemModel is the persistence model for the item catalog
type MasterItemModel struct {
	BaseModel
	SKU         string `gorm:"column:sku;type:varchar(100);not null;uniqueIndex"`
	Barcode     string `gorm:"type:varchar(100);index"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(100);index"`
	Unit        string `gorm:"type:varchar(20);not null;default:pcs"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MasterItemModel) TableName() string {
	return "master_items"
}

// ToDomain converts the model to a domain MasterItem
func (m *MasterItemModel) ToDomain() *catalog.MasterItem {
	return &catalog.MasterItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		SKU:         m.SKU,
		Barcode:     m.Barcode,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Unit:        m.Unit,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the model from a domain MasterItem
func (m *MasterItemModel) FromDomain(i *catalog.MasterItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.SKU = i.SKU
	m.Barcode = i.Barcode
	m.Name = i.Name
	m.Description = i.Description
	m.Category = i.Category
	m.Unit = i.Unit
	m.IsActive = i.IsActive
}

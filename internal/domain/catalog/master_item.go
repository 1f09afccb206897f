package catalog

import (
	"context"
	"strings"

	"github.com/wms/backend/internal/domain/shared"
)

// DefaultUnit is used when a master item does not name its unit
const DefaultUnit = "pcs"

// MasterItem is a catalog entry referenced by store items and PR lines.
// The SKU never changes after creation.
type MasterItem struct {
	shared.BaseEntity
	SKU         string
	Barcode     string
	Name        string
	Description string
	Category    string
	Unit        string
	IsActive    bool
}

// NewMasterItem creates an active catalog entry
func NewMasterItem(sku, name, category, unit string) (*MasterItem, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		unit = DefaultUnit
	}

	return &MasterItem{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        strings.TrimSpace(sku),
		Name:       name,
		Category:   category,
		Unit:       unit,
		IsActive:   true,
	}, nil
}

// MasterItemRepository provides read access to the catalog
type MasterItemRepository interface {
	FindByID(ctx context.Context, id int64) (*MasterItem, error)
	FindByIDs(ctx context.Context, ids []int64) ([]MasterItem, error)
	FindBySKU(ctx context.Context, sku string) (*MasterItem, error)
}

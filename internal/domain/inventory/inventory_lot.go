package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// LotStatus represents the lifecycle of an inventory lot
type LotStatus string

const (
	LotStatusActive   LotStatus = "active"
	LotStatusDepleted LotStatus = "depleted"
	LotStatusExpired  LotStatus = "expired"
)

// IsValid checks if the lot status is known
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusActive, LotStatusDepleted, LotStatusExpired:
		return true
	}
	return false
}

// InventoryLot is an immutable receipt record carrying its own cost basis
type InventoryLot struct {
	shared.BaseEntity
	StoreItemID       int64
	LotNumber         string
	Quantity          int
	UnitCost          decimal.Decimal
	TotalCost         decimal.Decimal
	RemainingQuantity int
	ReceivedDate      time.Time
	ExpiryDate        *time.Time
	PRID              *int64
	POID              *int64
	SupplierName      string
	InvoiceNumber     string
	Notes             string
	Status            LotStatus
}

// LotSpec carries the inputs of a new lot
type LotSpec struct {
	StoreItemID   int64
	LotNumber     string
	Quantity      int
	UnitCost      decimal.Decimal
	ReceivedDate  time.Time
	ExpiryDate    *time.Time
	PRID          *int64
	POID          *int64
	SupplierName  string
	InvoiceNumber string
	Notes         string
}

// NewInventoryLot creates a lot with remaining quantity equal to the received quantity
func NewInventoryLot(spec LotSpec) (*InventoryLot, error) {
	if spec.StoreItemID <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE_ITEM", "Store item ID is required")
	}
	if strings.TrimSpace(spec.LotNumber) == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Lot number cannot be empty")
	}
	if spec.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Lot quantity must be positive")
	}
	if spec.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if spec.ReceivedDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_RECEIVED_DATE", "Received date is required")
	}

	return &InventoryLot{
		BaseEntity:        shared.NewBaseEntity(),
		StoreItemID:       spec.StoreItemID,
		LotNumber:         spec.LotNumber,
		Quantity:          spec.Quantity,
		UnitCost:          spec.UnitCost,
		TotalCost:         spec.UnitCost.Mul(decimal.NewFromInt(int64(spec.Quantity))),
		RemainingQuantity: spec.Quantity,
		ReceivedDate:      shared.DateOnly(spec.ReceivedDate),
		ExpiryDate:        spec.ExpiryDate,
		PRID:              spec.PRID,
		POID:              spec.POID,
		SupplierName:      spec.SupplierName,
		InvoiceNumber:     spec.InvoiceNumber,
		Notes:             spec.Notes,
		Status:            LotStatusActive,
	}, nil
}

// IsExpired reports whether the lot is past its expiry date on the given day
func (l *InventoryLot) IsExpired(today time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return shared.DateOnly(*l.ExpiryDate).Before(shared.DateOnly(today))
}

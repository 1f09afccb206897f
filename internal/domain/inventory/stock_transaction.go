package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// TransactionType represents the type of stock movement
type TransactionType string

const (
	TransactionTypeReceive     TransactionType = "receive"
	TransactionTypePick        TransactionType = "pick"
	TransactionTypeAdjust      TransactionType = "adjust"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeReceive,
		TransactionTypePick,
		TransactionTypeAdjust,
		TransactionTypeTransferIn,
		TransactionTypeTransferOut:
		return true
	}
	return false
}

// IsIncrease returns true if this transaction type adds stock.
// Adjustments carry their own sign in Quantity.
func (t TransactionType) IsIncrease() bool {
	return t == TransactionTypeReceive || t == TransactionTypeTransferIn
}

// ReferenceType identifies the document a stock transaction came from
type ReferenceType string

const (
	ReferenceTypePR         ReferenceType = "pr"
	ReferenceTypePO         ReferenceType = "po"
	ReferenceTypeInvoice    ReferenceType = "invoice"
	ReferenceTypeAdjustment ReferenceType = "adjustment"
)

// StockTransaction is a write-once audit entry of one stock movement
type StockTransaction struct {
	shared.BaseEntity
	StoreID         int64
	StoreItemID     int64
	LotID           *int64
	Type            TransactionType
	Quantity        int
	UnitCost        decimal.Decimal
	ReferenceType   ReferenceType
	ReferenceID     *int64
	ReferenceNumber string
	UserID          *int64
	Notes           string
}

// NewReceiveTransaction records a receipt of a lot into a store item
func NewReceiveTransaction(item *StoreItem, lot *InventoryLot, refType ReferenceType, refID int64, refNumber string, userID *int64, notes string) (*StockTransaction, error) {
	if item == nil || lot == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Store item and lot are required")
	}
	if refType != ReferenceTypePR && refType != ReferenceTypePO {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Receipts must reference a PR or a PO")
	}

	lotID := lot.ID
	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		StoreID:         item.StoreID,
		StoreItemID:     item.ID,
		LotID:           &lotID,
		Type:            TransactionTypeReceive,
		Quantity:        lot.Quantity,
		UnitCost:        lot.UnitCost,
		ReferenceType:   refType,
		ReferenceID:     &refID,
		ReferenceNumber: refNumber,
		UserID:          userID,
		Notes:           notes,
	}, nil
}

// SignedQuantity returns the quantity with the sign of its effect on stock
func (t *StockTransaction) SignedQuantity() int {
	switch {
	case t.Type.IsIncrease():
		return t.Quantity
	case t.Type == TransactionTypeAdjust:
		return t.Quantity
	default:
		return -t.Quantity
	}
}

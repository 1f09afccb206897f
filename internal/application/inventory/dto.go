package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/inventory"
)

// StoreItemResponse represents a store item in API responses
type StoreItemResponse struct {
	ID                  int64     `json:"id"`
	StoreID             int64     `json:"store_id"`
	MasterItemID        int64     `json:"master_item_id"`
	Quantity            int       `json:"quantity"`
	MinQuantity         int       `json:"min_quantity"`
	ReorderPoint        int       `json:"reorder_point"`
	ReorderQuantity     int       `json:"reorder_quantity"`
	SafetyStock         int       `json:"safety_stock"`
	LeadTimeDays        int       `json:"lead_time_days"`
	LocationZone        string    `json:"location_zone,omitempty"`
	LocationShelf       string    `json:"location_shelf,omitempty"`
	IsActive            bool      `json:"is_active"`
	IsBelowReorderPoint bool      `json:"is_below_reorder_point"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ToStoreItemResponse converts a domain StoreItem to a response
func ToStoreItemResponse(item *inventory.StoreItem) StoreItemResponse {
	return StoreItemResponse{
		ID:                  item.ID,
		StoreID:             item.StoreID,
		MasterItemID:        item.MasterItemID,
		Quantity:            item.Quantity,
		MinQuantity:         item.MinQuantity,
		ReorderPoint:        item.ReorderPoint,
		ReorderQuantity:     item.ReorderQuantity,
		SafetyStock:         item.SafetyStock,
		LeadTimeDays:        item.LeadTimeDays,
		LocationZone:        item.LocationZone,
		LocationShelf:       item.LocationShelf,
		IsActive:            item.IsActive,
		IsBelowReorderPoint: item.IsBelowReorderPoint(),
		UpdatedAt:           item.UpdatedAt,
	}
}

// LotResponse represents an inventory lot in API responses
type LotResponse struct {
	ID                int64           `json:"id"`
	StoreItemID       int64           `json:"store_item_id"`
	LotNumber         string          `json:"lot_number"`
	Quantity          int             `json:"quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	ReceivedDate      string          `json:"received_date"`
	ExpiryDate        *string         `json:"expiry_date,omitempty"`
	PRID              *int64          `json:"pr_id,omitempty"`
	POID              *int64          `json:"po_id,omitempty"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	InvoiceNumber     string          `json:"invoice_number,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Status            string          `json:"status"`
}

// ToLotResponse converts a domain lot to a response
func ToLotResponse(lot *inventory.InventoryLot) LotResponse {
	resp := LotResponse{
		ID:                lot.ID,
		StoreItemID:       lot.StoreItemID,
		LotNumber:         lot.LotNumber,
		Quantity:          lot.Quantity,
		RemainingQuantity: lot.RemainingQuantity,
		UnitCost:          lot.UnitCost,
		TotalCost:         lot.TotalCost,
		ReceivedDate:      lot.ReceivedDate.Format(time.DateOnly),
		PRID:              lot.PRID,
		POID:              lot.POID,
		SupplierName:      lot.SupplierName,
		InvoiceNumber:     lot.InvoiceNumber,
		Notes:             lot.Notes,
		Status:            string(lot.Status),
	}
	if lot.ExpiryDate != nil {
		s := lot.ExpiryDate.Format(time.DateOnly)
		resp.ExpiryDate = &s
	}
	return resp
}

// TransactionResponse represents a stock transaction in API responses
type TransactionResponse struct {
	ID              int64           `json:"id"`
	StoreID         int64           `json:"store_id"`
	StoreItemID     int64           `json:"store_item_id"`
	LotID           *int64          `json:"lot_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     *int64          `json:"reference_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	UserID          *int64          `json:"user_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain stock transaction to a response
func ToTransactionResponse(txn *inventory.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              txn.ID,
		StoreID:         txn.StoreID,
		StoreItemID:     txn.StoreItemID,
		LotID:           txn.LotID,
		TransactionType: string(txn.Type),
		Quantity:        txn.Quantity,
		UnitCost:        txn.UnitCost,
		ReferenceType:   string(txn.ReferenceType),
		ReferenceID:     txn.ReferenceID,
		ReferenceNumber: txn.ReferenceNumber,
		UserID:          txn.UserID,
		Notes:           txn.Notes,
		CreatedAt:       txn.CreatedAt,
	}
}

// BalanceReport compares a store item's quantity with its transaction history
type BalanceReport struct {
	StoreItemID    int64 `json:"store_item_id"`
	Quantity       int   `json:"quantity"`
	LedgerQuantity int   `json:"ledger_quantity"`
	Consistent     bool  `json:"consistent"`
}

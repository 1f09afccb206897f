package procurement

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/procurement"
)

// CreatePRLine is one requested line of a new PR
type CreatePRLine struct {
	MasterItemID      int64
	Quantity          int
	EstimatedUnitCost *decimal.Decimal
	Notes             string
}

// CreatePRInput contains input for creating a PR
type CreatePRInput struct {
	StoreID      int64
	RequesterID  int64
	Priority     string
	RequiredDate time.Time
	Notes        string
	Items        []CreatePRLine
}

// CreatePRResult identifies a created PR
type CreatePRResult struct {
	ID       int64  `json:"id"`
	PRNumber string `json:"pr_number"`
}

// ReceiveLineRequest is one delivered line of a receive call
type ReceiveLineRequest struct {
	PRItemID   int64
	Quantity   int
	UnitCost   *decimal.Decimal
	ExpiryDate *time.Time
}

// ReceiveGoodsInput contains input for receiving goods against a PR
type ReceiveGoodsInput struct {
	PONumber        string
	SupplierName    string
	SupplierContact string
	ReceivedDate    *time.Time
	InvoiceNumber   string
	Items           []ReceiveLineRequest
	UserID          *int64
	Notes           string
}

// ReceiveRecord describes one applied receive line
type ReceiveRecord struct {
	PRItemID     int64           `json:"pr_item_id"`
	MasterItemID int64           `json:"master_item_id"`
	ItemName     string          `json:"item_name"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	LotNumber    string          `json:"lot_number"`
}

// ReceiveGoodsResult reports the outcome of a receive call
type ReceiveGoodsResult struct {
	PRID           int64                `json:"pr_id"`
	Status         procurement.PRStatus `json:"status"`
	PONumber       string               `json:"po_number,omitempty"`
	SupplierName   string               `json:"supplier_name,omitempty"`
	ReceiveRecords []ReceiveRecord      `json:"receive_records"`
	SkippedItemIDs []int64              `json:"skipped_item_ids,omitempty"`
}

// PRItemResponse represents a PR line in API responses
type PRItemResponse struct {
	ID                int64           `json:"id"`
	MasterItemID      int64           `json:"master_item_id"`
	SKU               string          `json:"sku"`
	ItemName          string          `json:"item_name"`
	Unit              string          `json:"unit"`
	Quantity          int             `json:"quantity"`
	ReceivedQuantity  int             `json:"received_quantity"`
	PendingQuantity   int             `json:"pending_quantity"`
	EstimatedUnitCost decimal.Decimal `json:"estimated_unit_cost"`
	EstimatedTotal    decimal.Decimal `json:"estimated_total"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
}

// PurchaseOrderResponse represents a PO in API responses
type PurchaseOrderResponse struct {
	ID                 int64   `json:"id"`
	PONumber           string  `json:"po_number"`
	PRID               int64   `json:"pr_id"`
	StoreID            int64   `json:"store_id"`
	SupplierName       string  `json:"supplier_name"`
	SupplierContact    string  `json:"supplier_contact,omitempty"`
	Status             string  `json:"status"`
	OrderDate          *string `json:"order_date,omitempty"`
	ActualDeliveryDate *string `json:"actual_delivery_date,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	CreatedBy          *int64  `json:"created_by,omitempty"`
}

// PRResponse represents a PR with its lines in API responses
type PRResponse struct {
	ID             int64                   `json:"id"`
	PRNumber       string                  `json:"pr_number"`
	StoreID        int64                   `json:"store_id"`
	StoreName      string                  `json:"store_name"`
	DepartmentName string                  `json:"department_name"`
	RequesterID    int64                   `json:"requester_id"`
	RequesterName  string                  `json:"requester_name"`
	ApprovedBy     *int64                  `json:"approved_by,omitempty"`
	ApproverName   string                  `json:"approver_name,omitempty"`
	ApprovedAt     *time.Time              `json:"approved_at,omitempty"`
	Status         procurement.PRStatus    `json:"status"`
	Priority       procurement.Priority    `json:"priority"`
	RequiredDate   string                  `json:"required_date"`
	Notes          string                  `json:"notes"`
	ItemCount      int                     `json:"item_count"`
	EstimatedTotal decimal.Decimal         `json:"estimated_total"`
	Items          []PRItemResponse        `json:"items"`
	PurchaseOrders []PurchaseOrderResponse `json:"purchase_orders"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// PRListItemResponse represents a PR row in list responses
type PRListItemResponse struct {
	ID             int64                `json:"id"`
	PRNumber       string               `json:"pr_number"`
	StoreID        int64                `json:"store_id"`
	RequesterID    int64                `json:"requester_id"`
	RequesterName  string               `json:"requester_name"`
	Status         procurement.PRStatus `json:"status"`
	Priority       procurement.Priority `json:"priority"`
	RequiredDate   string               `json:"required_date"`
	Notes          string               `json:"notes,omitempty"`
	ItemCount      int                  `json:"item_count"`
	EstimatedTotal decimal.Decimal      `json:"estimated_total"`
	CreatedAt      time.Time            `json:"created_at"`
}

// ToPRResponse converts a PR detail and its orders to a response
func ToPRResponse(d *procurement.PRDetail, orders []procurement.PurchaseOrder) PRResponse {
	pr := d.PR
	resp := PRResponse{
		ID:             pr.ID,
		PRNumber:       pr.PRNumber,
		StoreID:        pr.StoreID,
		StoreName:      d.StoreName,
		DepartmentName: d.DepartmentName,
		RequesterID:    pr.RequesterID,
		RequesterName:  d.RequesterName,
		ApprovedBy:     pr.ApprovedBy,
		ApproverName:   d.ApproverName,
		ApprovedAt:     pr.ApprovedAt,
		Status:         pr.Status,
		Priority:       pr.Priority,
		RequiredDate:   pr.RequiredDate.Format(time.DateOnly),
		Notes:          pr.Notes,
		ItemCount:      len(d.Items),
		Items:          make([]PRItemResponse, len(d.Items)),
		PurchaseOrders: ToPurchaseOrderResponses(orders),
		CreatedAt:      pr.CreatedAt,
		UpdatedAt:      pr.UpdatedAt,
	}
	total := decimal.Zero
	for i := range d.Items {
		item := &d.Items[i]
		resp.Items[i] = PRItemResponse{
			ID:                item.ID,
			MasterItemID:      item.MasterItemID,
			SKU:               item.SKU,
			ItemName:          item.ItemName,
			Unit:              item.Unit,
			Quantity:          item.Quantity,
			ReceivedQuantity:  item.ReceivedQuantity,
			PendingQuantity:   item.PendingQuantity(),
			EstimatedUnitCost: item.EstimatedUnitCost,
			EstimatedTotal:    item.EstimatedTotal(),
			Status:            string(item.Status),
			Notes:             item.Notes,
		}
		total = total.Add(item.EstimatedTotal())
	}
	resp.EstimatedTotal = total
	return resp
}

// ToPRListItemResponse converts a PR summary to a list response
func ToPRListItemResponse(s *procurement.PRSummary) PRListItemResponse {
	return PRListItemResponse{
		ID:             s.ID,
		PRNumber:       s.PRNumber,
		StoreID:        s.StoreID,
		RequesterID:    s.RequesterID,
		RequesterName:  s.RequesterName,
		Status:         s.Status,
		Priority:       s.Priority,
		RequiredDate:   s.RequiredDate.Format(time.DateOnly),
		Notes:          s.Notes,
		ItemCount:      s.ItemCount,
		EstimatedTotal: s.EstimatedTotal,
		CreatedAt:      s.CreatedAt,
	}
}

// PRExportRow is one line of the PR list export
type PRExportRow struct {
	PRNumber       string               `json:"pr_number"`
	Status         procurement.PRStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	RequiredDate   string               `json:"required_date"`
	StoreName      string               `json:"store_name"`
	DepartmentName string               `json:"department_name"`
	RequesterName  string               `json:"requester_name"`
	ItemCount      int                  `json:"item_count"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
}

// ToPRExportRow converts a list summary to an export line
func ToPRExportRow(s *procurement.PRSummary) PRExportRow {
	return PRExportRow{
		PRNumber:       s.PRNumber,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		RequiredDate:   s.RequiredDate.Format(time.DateOnly),
		StoreName:      s.StoreName,
		DepartmentName: s.DepartmentName,
		RequesterName:  s.RequesterName,
		ItemCount:      s.ItemCount,
		TotalAmount:    s.EstimatedTotal,
	}
}

// ToPurchaseOrderResponses converts domain POs to responses
func ToPurchaseOrderResponses(orders []procurement.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		po := &orders[i]
		responses[i] = PurchaseOrderResponse{
			ID:                 po.ID,
			PONumber:           po.PONumber,
			PRID:               po.PRID,
			StoreID:            po.StoreID,
			SupplierName:       po.SupplierName,
			SupplierContact:    po.SupplierContact,
			Status:             string(po.Status),
			OrderDate:          formatDate(po.OrderDate),
			ActualDeliveryDate: formatDate(po.ActualDeliveryDate),
			Notes:              po.Notes,
			CreatedBy:          po.CreatedBy,
		}
	}
	return responses
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

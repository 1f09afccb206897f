package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/procurement"
)

// DocumentTypePurchaseRequisition identifies purchasing documents built from a PR
const DocumentTypePurchaseRequisition = "PURCHASE_REQUISITION"

// PurchasingDocument is the purchasing-facing projection of a PR
type PurchasingDocument struct {
	DocumentType      string                  `json:"document_type"`
	Header            DocumentHeader          `json:"header"`
	Items             []DocumentItem          `json:"items"`
	Summary           DocumentSummary         `json:"summary"`
	PurchaseOrders    []DocumentPurchaseOrder `json:"purchase_orders"`
	PurchasingSection *PurchasingSection      `json:"purchasing_section,omitempty"`
}

// DocumentHeader carries the PR header fields
type DocumentHeader struct {
	PRID           int64      `json:"pr_id"`
	PRNumber       string     `json:"pr_number"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	CreatedAt      time.Time  `json:"created_at"`
	RequiredDate   string     `json:"required_date"`
	StoreName      string     `json:"store_name"`
	DepartmentName string     `json:"department_name"`
	RequesterName  string     `json:"requester_name"`
	ApproverName   string     `json:"approver_name,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	Notes          string     `json:"notes"`
}

// DocumentItem is one numbered line of the document
type DocumentItem struct {
	No                int             `json:"no"`
	PRItemID          int64           `json:"pr_item_id"`
	SKU               string          `json:"sku"`
	ItemName          string          `json:"item_name"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit"`
	QuantityRequested int             `json:"quantity_requested"`
	ReceivedQuantity  int             `json:"received_quantity"`
	PendingQuantity   int             `json:"pending_quantity"`
	EstimatedPrice    decimal.Decimal `json:"estimated_price"`
	EstimatedTotal    decimal.Decimal `json:"estimated_total"`
	Notes             string          `json:"notes"`
}

// DocumentSummary totals the document lines
type DocumentSummary struct {
	TotalItems           int             `json:"total_items"`
	TotalQuantity        int             `json:"total_quantity"`
	TotalEstimatedAmount decimal.Decimal `json:"total_estimated_amount"`
}

// DocumentPurchaseOrder is a PO already recorded against the PR
type DocumentPurchaseOrder struct {
	PONumber     string `json:"po_number"`
	SupplierName string `json:"supplier_name"`
	OrderDate    string `json:"order_date"`
	ReceivedDate string `json:"received_date"`
}

// PurchasingSection is the blank form purchasing fills in and sends back to receive
type PurchasingSection struct {
	PONumber           string           `json:"po_number"`
	SupplierName       string           `json:"supplier_name"`
	SupplierContact    string           `json:"supplier_contact"`
	OrderDate          string           `json:"order_date"`
	ActualDeliveryDate string           `json:"actual_delivery_date"`
	ActualPrices       []ActualPriceRow `json:"actual_prices"`
}

// ActualPriceRow is a blank price row for one PR line
type ActualPriceRow struct {
	No              int    `json:"no"`
	PRItemID        int64  `json:"pr_item_id"`
	SKU             string `json:"sku"`
	ItemName        string `json:"item_name"`
	Quantity        int    `json:"quantity"`
	ActualUnitPrice string `json:"actual_unit_price"`
	ActualTotal     string `json:"actual_total"`
}

// FormatPurchasingDocument projects a PR detail into a purchasing document.
// It is pure: equal inputs give equal documents.
func FormatPurchasingDocument(d *procurement.PRDetail, orders []procurement.PurchaseOrder, withPurchasingSection bool) *PurchasingDocument {
	pr := d.PR
	doc := &PurchasingDocument{
		DocumentType: DocumentTypePurchaseRequisition,
		Header: DocumentHeader{
			PRID:           pr.ID,
			PRNumber:       pr.PRNumber,
			Status:         pr.Status.String(),
			Priority:       string(pr.Priority),
			CreatedAt:      pr.CreatedAt,
			RequiredDate:   pr.RequiredDate.Format(time.DateOnly),
			StoreName:      d.StoreName,
			DepartmentName: d.DepartmentName,
			RequesterName:  d.RequesterName,
			ApproverName:   d.ApproverName,
			ApprovedAt:     pr.ApprovedAt,
			Notes:          pr.Notes,
		},
		Items:          make([]DocumentItem, len(d.Items)),
		PurchaseOrders: make([]DocumentPurchaseOrder, len(orders)),
	}

	total := decimal.Zero
	quantity := 0
	for i := range d.Items {
		item := &d.Items[i]
		doc.Items[i] = DocumentItem{
			No:                i + 1,
			PRItemID:          item.ID,
			SKU:               item.SKU,
			ItemName:          item.ItemName,
			Description:       item.Description,
			Unit:              item.Unit,
			QuantityRequested: item.Quantity,
			ReceivedQuantity:  item.ReceivedQuantity,
			PendingQuantity:   item.Quantity - item.ReceivedQuantity,
			EstimatedPrice:    item.EstimatedUnitCost,
			EstimatedTotal:    item.EstimatedTotal(),
			Notes:             item.Notes,
		}
		total = total.Add(item.EstimatedTotal())
		quantity += item.Quantity
	}
	doc.Summary = DocumentSummary{
		TotalItems:           len(d.Items),
		TotalQuantity:        quantity,
		TotalEstimatedAmount: total,
	}

	for i := range orders {
		po := &orders[i]
		doc.PurchaseOrders[i] = DocumentPurchaseOrder{
			PONumber:     po.PONumber,
			SupplierName: po.SupplierName,
			OrderDate:    dateOrEmpty(po.OrderDate),
			ReceivedDate: dateOrEmpty(po.ActualDeliveryDate),
		}
	}

	if withPurchasingSection {
		section := &PurchasingSection{ActualPrices: make([]ActualPriceRow, len(d.Items))}
		for i := range d.Items {
			item := &d.Items[i]
			section.ActualPrices[i] = ActualPriceRow{
				No:       i + 1,
				PRItemID: item.ID,
				SKU:      item.SKU,
				ItemName: item.ItemName,
				Quantity: item.PendingQuantity(),
			}
		}
		doc.PurchasingSection = section
	}

	return doc
}

// Spreadsheet is a tabular rendering of a purchasing document
type Spreadsheet struct {
	FileName string     `json:"file_name"`
	Sheet    string     `json:"sheet"`
	Header   [][]string `json:"header"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Footer   [][]string `json:"footer"`
}

// SpreadsheetColumns are the line columns of an exported PR
var SpreadsheetColumns = []string{
	"No", "SKU", "Item", "Unit", "Requested", "Received", "Pending", "Est. Price", "Est. Total", "Notes",
}

// ToSpreadsheet lays a purchasing document out as rows
func ToSpreadsheet(doc *PurchasingDocument) *Spreadsheet {
	h := doc.Header
	sheet := &Spreadsheet{
		FileName: fmt.Sprintf("%s.xlsx", h.PRNumber),
		Sheet:    h.PRNumber,
		Header: [][]string{
			{"PR Number", h.PRNumber},
			{"Status", h.Status},
			{"Priority", h.Priority},
			{"Required Date", h.RequiredDate},
			{"Store", h.StoreName},
			{"Department", h.DepartmentName},
			{"Requester", h.RequesterName},
			{"Approver", h.ApproverName},
			{"Notes", h.Notes},
		},
		Columns: SpreadsheetColumns,
		Rows:    make([][]string, len(doc.Items)),
	}
	for i, item := range doc.Items {
		sheet.Rows[i] = []string{
			fmt.Sprint(item.No),
			item.SKU,
			item.ItemName,
			item.Unit,
			fmt.Sprint(item.QuantityRequested),
			fmt.Sprint(item.ReceivedQuantity),
			fmt.Sprint(item.PendingQuantity),
			item.EstimatedPrice.StringFixed(2),
			item.EstimatedTotal.StringFixed(2),
			item.Notes,
		}
	}
	sheet.Footer = [][]string{
		{"Total Items", fmt.Sprint(doc.Summary.TotalItems)},
		{"Total Quantity", fmt.Sprint(doc.Summary.TotalQuantity)},
		{"Total Estimated Amount", doc.Summary.TotalEstimatedAmount.StringFixed(2)},
	}
	return sheet
}

// ExportForPurchasing builds the purchasing document of a PR
func (s *WorkflowService) ExportForPurchasing(ctx context.Context, prID int64) (*PurchasingDocument, error) {
	detail, err := s.prRepo.GetDetail(ctx, prID)
	if err != nil {
		return nil, err
	}
	orders, err := s.poRepo.ListByPR(ctx, prID)
	if err != nil {
		return nil, err
	}
	return FormatPurchasingDocument(detail, orders, s.cfg.RequiresPurchaseOrder), nil
}

// ExportToExcel builds the spreadsheet rendering of a PR
func (s *WorkflowService) ExportToExcel(ctx context.Context, prID int64) (*Spreadsheet, error) {
	doc, err := s.ExportForPurchasing(ctx, prID)
	if err != nil {
		return nil, err
	}
	return ToSpreadsheet(doc), nil
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

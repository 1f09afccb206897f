package procurement

import (
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseRequisition = "PurchaseRequisition"

// Event type constants
const (
	EventTypePRCreated     = "procurement.pr_created"
	EventTypePRApproved    = "procurement.pr_approved"
	EventTypePRRejected    = "procurement.pr_rejected"
	EventTypePRCancelled   = "procurement.pr_cancelled"
	EventTypeGoodsReceived = "procurement.goods_received"
)

// PRCreatedEvent is raised when a new requisition is stored
type PRCreatedEvent struct {
	shared.BaseDomainEvent
	PRID           int64           `json:"pr_id"`
	PRNumber       string          `json:"pr_number"`
	StoreID        int64           `json:"store_id"`
	RequesterID    int64           `json:"requester_id"`
	Status         PRStatus        `json:"status"`
	Priority       Priority        `json:"priority"`
	ItemCount      int             `json:"item_count"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
}

// NewPRCreatedEvent creates a new PRCreatedEvent
func NewPRCreatedEvent(pr *PurchaseRequisition) *PRCreatedEvent {
	return &PRCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePRCreated, AggregateTypePurchaseRequisition, pr.ID),
		PRID:            pr.ID,
		PRNumber:        pr.PRNumber,
		StoreID:         pr.StoreID,
		RequesterID:     pr.RequesterID,
		Status:          pr.Status,
		Priority:        pr.Priority,
		ItemCount:       len(pr.Items),
		EstimatedTotal:  pr.EstimatedTotal(),
	}
}

// PRApprovedEvent is raised when a requisition is approved
type PRApprovedEvent struct {
	shared.BaseDomainEvent
	PRID        int64  `json:"pr_id"`
	PRNumber    string `json:"pr_number"`
	StoreID     int64  `json:"store_id"`
	RequesterID int64  `json:"requester_id"`
	ApproverID  int64  `json:"approver_id"`
}

// NewPRApprovedEvent creates a new PRApprovedEvent
func NewPRApprovedEvent(pr *PurchaseRequisition) *PRApprovedEvent {
	var approver int64
	if pr.ApprovedBy != nil {
		approver = *pr.ApprovedBy
	}
	return &PRApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePRApproved, AggregateTypePurchaseRequisition, pr.ID),
		PRID:            pr.ID,
		PRNumber:        pr.PRNumber,
		StoreID:         pr.StoreID,
		RequesterID:     pr.RequesterID,
		ApproverID:      approver,
	}
}

// PRRejectedEvent is raised when a requisition is rejected
type PRRejectedEvent struct {
	shared.BaseDomainEvent
	PRID        int64  `json:"pr_id"`
	PRNumber    string `json:"pr_number"`
	StoreID     int64  `json:"store_id"`
	RequesterID int64  `json:"requester_id"`
	ApproverID  int64  `json:"approver_id"`
	Reason      string `json:"reason"`
}

// NewPRRejectedEvent creates a new PRRejectedEvent
func NewPRRejectedEvent(pr *PurchaseRequisition, reason string) *PRRejectedEvent {
	var approver int64
	if pr.ApprovedBy != nil {
		approver = *pr.ApprovedBy
	}
	return &PRRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePRRejected, AggregateTypePurchaseRequisition, pr.ID),
		PRID:            pr.ID,
		PRNumber:        pr.PRNumber,
		StoreID:         pr.StoreID,
		RequesterID:     pr.RequesterID,
		ApproverID:      approver,
		Reason:          reason,
	}
}

// PRCancelledEvent is raised when a requisition is withdrawn
type PRCancelledEvent struct {
	shared.BaseDomainEvent
	PRID        int64  `json:"pr_id"`
	PRNumber    string `json:"pr_number"`
	StoreID     int64  `json:"store_id"`
	RequesterID int64  `json:"requester_id"`
	CancelledBy int64  `json:"cancelled_by"`
	Reason      string `json:"reason"`
}

// NewPRCancelledEvent creates a new PRCancelledEvent
func NewPRCancelledEvent(pr *PurchaseRequisition, userID int64, reason string) *PRCancelledEvent {
	return &PRCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePRCancelled, AggregateTypePurchaseRequisition, pr.ID),
		PRID:            pr.ID,
		PRNumber:        pr.PRNumber,
		StoreID:         pr.StoreID,
		RequesterID:     pr.RequesterID,
		CancelledBy:     userID,
		Reason:          reason,
	}
}

// ReceivedLine describes one applied receive line for events
type ReceivedLine struct {
	PRItemID     int64           `json:"pr_item_id"`
	MasterItemID int64           `json:"master_item_id"`
	StoreItemID  int64           `json:"store_item_id"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LotNumber    string          `json:"lot_number"`
}

// GoodsReceivedEvent is raised after a receive call is applied
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	PRID         int64          `json:"pr_id"`
	PRNumber     string         `json:"pr_number"`
	StoreID      int64          `json:"store_id"`
	RequesterID  int64          `json:"requester_id"`
	PONumber     string         `json:"po_number,omitempty"`
	SupplierName string         `json:"supplier_name,omitempty"`
	Status       PRStatus       `json:"status"`
	Lines        []ReceivedLine `json:"lines"`
}

// NewGoodsReceivedEvent creates a new GoodsReceivedEvent
func NewGoodsReceivedEvent(pr *PurchaseRequisition, poNumber, supplierName string, lines []ReceivedLine) *GoodsReceivedEvent {
	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceived, AggregateTypePurchaseRequisition, pr.ID),
		PRID:            pr.ID,
		PRNumber:        pr.PRNumber,
		StoreID:         pr.StoreID,
		RequesterID:     pr.RequesterID,
		PONumber:        poNumber,
		SupplierName:    supplierName,
		Status:          pr.Status,
		Lines:           lines,
	}
}

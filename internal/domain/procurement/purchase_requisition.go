package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// PRItem represents one requested line of a purchase requisition
type PRItem struct {
	ID                int64
	PRID              int64
	MasterItemID      int64
	Quantity          int
	EstimatedUnitCost decimal.Decimal
	Notes             string
	Status            LineStatus
	ReceivedQuantity  int
	CreatedAt         time.Time
}

// PendingQuantity returns the quantity still to be received
func (i *PRItem) PendingQuantity() int {
	pending := i.Quantity - i.ReceivedQuantity
	if pending < 0 {
		return 0
	}
	return pending
}

// EstimatedTotal returns quantity x estimated unit cost
func (i *PRItem) EstimatedTotal() decimal.Decimal {
	return i.EstimatedUnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsFullyReceived returns true once the requested quantity has arrived
func (i *PRItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.Quantity
}

// AddReceivedQuantity records a delivery against the line
func (i *PRItem) AddReceivedQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if i.ReceivedQuantity+quantity > i.Quantity {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %d, only %d remaining", quantity, i.PendingQuantity()))
	}

	i.ReceivedQuantity += quantity
	return nil
}

// PurchaseRequisition is the aggregate root of the requisition workflow
type PurchaseRequisition struct {
	shared.BaseAggregateRoot
	PRNumber        string
	StoreID         int64
	RequesterID     int64
	Status          PRStatus
	Priority        Priority
	RequiredDate    time.Time
	SupplierName    string
	SupplierContact string
	Notes           string
	ApprovedBy      *int64
	ApprovedAt      *time.Time
	Items           []PRItem
}

// NewPurchaseRequisition creates a requisition in its initial status.
// initial must be pending (approval workflow) or ordered (direct workflow).
func NewPurchaseRequisition(prNumber string, storeID, requesterID int64, priority Priority, requiredDate time.Time, notes string, initial PRStatus) (*PurchaseRequisition, error) {
	if strings.TrimSpace(prNumber) == "" {
		return nil, shared.NewDomainError("INVALID_PR_NUMBER", "PR number cannot be empty")
	}
	if storeID <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID is required")
	}
	if requesterID <= 0 {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester ID is required")
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Unknown priority %q", priority))
	}
	if requiredDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_REQUIRED_DATE", "Required date is required")
	}
	if initial != PRStatusPending && initial != PRStatusOrdered {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("PR cannot start in %s status", initial))
	}

	return &PurchaseRequisition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PRNumber:          prNumber,
		StoreID:           storeID,
		RequesterID:       requesterID,
		Status:            initial,
		Priority:          priority,
		RequiredDate:      shared.DateOnly(requiredDate),
		Notes:             notes,
		Items:             make([]PRItem, 0),
	}, nil
}

// AddItem appends a requested line. Lines can only be added before any approval.
func (p *PurchaseRequisition) AddItem(masterItemID int64, quantity int, estimatedUnitCost decimal.Decimal, notes string) (*PRItem, error) {
	if p.Status != PRStatusPending && p.Status != PRStatusOrdered {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to a PR in %s status", p.Status))
	}
	if p.Status == PRStatusOrdered && p.hasReceipts() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items after goods were received")
	}
	if masterItemID <= 0 {
		return nil, shared.NewDomainError("INVALID_MASTER_ITEM", "Master item ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if estimatedUnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Estimated unit cost cannot be negative")
	}

	p.Items = append(p.Items, PRItem{
		PRID:              p.ID,
		MasterItemID:      masterItemID,
		Quantity:          quantity,
		EstimatedUnitCost: estimatedUnitCost,
		Notes:             notes,
		Status:            LineStatusPending,
		ReceivedQuantity:  0,
		CreatedAt:         time.Now(),
	})

	return &p.Items[len(p.Items)-1], nil
}

// RecordCreated raises the creation event once the PR has its ID
func (p *PurchaseRequisition) RecordCreated() {
	p.AddDomainEvent(NewPRCreatedEvent(p))
}

// Approve moves a pending PR to approved.
// notes replace the existing notes only when non-nil.
func (p *PurchaseRequisition) Approve(approverID int64, notes *string) error {
	if p.Status != PRStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve PR in %s status", p.Status))
	}
	if approverID <= 0 {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID is required")
	}

	now := time.Now()
	p.Status = PRStatusApproved
	p.ApprovedBy = &approverID
	p.ApprovedAt = &now
	if notes != nil {
		p.Notes = *notes
	}
	for i := range p.Items {
		p.Items[i].Status = LineStatusApproved
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPRApprovedEvent(p))

	return nil
}

// Reject moves a pending or approved PR to rejected. The reason always
// overwrites the notes and the rejecting user becomes the approver of record.
func (p *PurchaseRequisition) Reject(approverID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}
	if !p.Status.CanTransitionTo(PRStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject PR in %s status", p.Status))
	}
	if approverID <= 0 {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID is required")
	}

	now := time.Now()
	p.Status = PRStatusRejected
	p.ApprovedBy = &approverID
	p.ApprovedAt = &now
	p.Notes = reason
	for i := range p.Items {
		p.Items[i].Status = LineStatusRejected
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPRRejectedEvent(p, reason))

	return nil
}

// Cancel withdraws a PR that has not received anything yet
func (p *PurchaseRequisition) Cancel(userID int64, reason string) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("PR is already closed (%s)", p.Status))
	}
	if !p.Status.CanTransitionTo(PRStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel PR in %s status", p.Status))
	}
	if p.hasReceipts() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a PR with received goods")
	}

	p.Status = PRStatusCancelled
	if strings.TrimSpace(reason) != "" {
		p.Notes = reason
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPRCancelledEvent(p, userID, reason))

	return nil
}

// EnsureReceivable fails unless goods may be received against the PR
func (p *PurchaseRequisition) EnsureReceivable() error {
	if p.Status == PRStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot receive for cancelled PR")
	}
	if !p.Status.IsReceivable() {
		return shared.NewDomainError("INVALID_STATE", "PR must be approved before receiving")
	}
	return nil
}

// Item returns the line with the given ID
func (p *PurchaseRequisition) Item(itemID int64) (*PRItem, bool) {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// ReceiveItem adds a delivered quantity to the matching line.
// The bool result is false when the PR has no such line; callers skip those.
func (p *PurchaseRequisition) ReceiveItem(itemID int64, quantity int) (*PRItem, bool, error) {
	if err := p.EnsureReceivable(); err != nil {
		return nil, false, err
	}

	item, ok := p.Item(itemID)
	if !ok {
		return nil, false, nil
	}
	if err := item.AddReceivedQuantity(quantity); err != nil {
		return nil, true, err
	}

	p.UpdatedAt = time.Now()
	return item, true, nil
}

// RecomputeStatus overwrites the status with the one derived from the items
func (p *PurchaseRequisition) RecomputeStatus() PRStatus {
	p.Status = DeriveStatus(p.Items)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return p.Status
}

// RecordReceipt raises the goods received event for one receive call
func (p *PurchaseRequisition) RecordReceipt(poNumber, supplierName string, lines []ReceivedLine) {
	p.AddDomainEvent(NewGoodsReceivedEvent(p, poNumber, supplierName, lines))
}

// EstimatedTotal returns the sum of the line estimates
func (p *PurchaseRequisition) EstimatedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range p.Items {
		total = total.Add(p.Items[i].EstimatedTotal())
	}
	return total
}

// TotalQuantity returns the sum of requested quantities
func (p *PurchaseRequisition) TotalQuantity() int {
	total := 0
	for i := range p.Items {
		total += p.Items[i].Quantity
	}
	return total
}

func (p *PurchaseRequisition) hasReceipts() bool {
	for i := range p.Items {
		if p.Items[i].ReceivedQuantity > 0 {
			return true
		}
	}
	return false
}

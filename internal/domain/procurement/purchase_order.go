package procurement

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// POStatus represents the status of a supplier purchase order
type POStatus string

const (
	POStatusOrdered   POStatus = "ordered"
	POStatusReceived  POStatus = "received"
	POStatusCancelled POStatus = "cancelled"
)

// IsValid checks if the status is a valid POStatus
func (s POStatus) IsValid() bool {
	switch s {
	case POStatusOrdered, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder is the supplier-facing order recorded when goods arrive.
// The PO number is supplied by the caller and is unique per PR.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber             string
	PRID                 int64
	StoreID              int64
	SupplierName         string
	SupplierContact      string
	Status               POStatus
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	Notes                string
	CreatedBy            *int64
}

// NewReceivedPurchaseOrder creates the PO for its first delivery.
// Order, expected and actual delivery dates all start at the received date.
func NewReceivedPurchaseOrder(poNumber string, pr *PurchaseRequisition, supplierName, supplierContact string, receivedDate time.Time, notes string, createdBy *int64) (*PurchaseOrder, error) {
	if strings.TrimSpace(poNumber) == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "PO number is required")
	}
	if pr == nil || pr.ID <= 0 {
		return nil, shared.NewDomainError("INVALID_PR", "PR is required")
	}

	day := shared.DateOnly(receivedDate)
	orderDate, expected, actual := day, day, day
	return &PurchaseOrder{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		PONumber:             poNumber,
		PRID:                 pr.ID,
		StoreID:              pr.StoreID,
		SupplierName:         supplierName,
		SupplierContact:      supplierContact,
		Status:               POStatusReceived,
		OrderDate:            &orderDate,
		ExpectedDeliveryDate: &expected,
		ActualDeliveryDate:   &actual,
		Notes:                notes,
		CreatedBy:            createdBy,
	}, nil
}

// RecordDelivery marks a further delivery against an existing PO.
// Blank supplier fields keep the recorded values.
func (o *PurchaseOrder) RecordDelivery(receivedDate time.Time, supplierName, supplierContact string) error {
	if o.Status == POStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot receive against a cancelled PO")
	}

	day := shared.DateOnly(receivedDate)
	o.Status = POStatusReceived
	o.ActualDeliveryDate = &day
	if strings.TrimSpace(supplierName) != "" {
		o.SupplierName = supplierName
	}
	if strings.TrimSpace(supplierContact) != "" {
		o.SupplierContact = supplierContact
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

package procurement

import (
	"context"
	"time"
)

// PurchaseRequisitionRepository defines the interface for requisition persistence
type PurchaseRequisitionRepository interface {
	// Create inserts the PR with its items and assigns IDs to both
	Create(ctx context.Context, pr *PurchaseRequisition) error

	// FindByID loads a PR with its items
	FindByID(ctx context.Context, id int64) (*PurchaseRequisition, error)

	// FindForUpdate loads a PR with its items, locking the PR row for the transaction
	FindForUpdate(ctx context.Context, id int64) (*PurchaseRequisition, error)

	// Save updates the PR header and the status and received quantity of its items
	Save(ctx context.Context, pr *PurchaseRequisition) error

	// GetDetail loads a PR joined with store, department, user and master item names
	GetDetail(ctx context.Context, id int64) (*PRDetail, error)

	// ListByStore lists a store's PRs, newest first
	ListByStore(ctx context.Context, storeID int64, filter ListFilter) ([]PRSummary, error)

	// ListPendingApprovals lists pending PRs, oldest first. A nil storeID spans all stores.
	ListPendingApprovals(ctx context.Context, storeID *int64) ([]PendingApprovalRow, error)

	// ListReceivableDueBy lists receivable PRs required on or before until, by required date
	ListReceivableDueBy(ctx context.Context, storeID *int64, until time.Time) ([]DeliveryRow, error)

	// ListReceivableOverdue lists receivable PRs required before today, by required date
	ListReceivableOverdue(ctx context.Context, storeID *int64, today time.Time) ([]DeliveryRow, error)

	// ExistsByPRNumber checks if a PR number is taken
	ExistsByPRNumber(ctx context.Context, prNumber string) (bool, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByNumberAndPR finds the PO recorded for a PR under a PO number
	FindByNumberAndPR(ctx context.Context, poNumber string, prID int64) (*PurchaseOrder, error)

	// Save creates or updates a PO
	Save(ctx context.Context, po *PurchaseOrder) error

	// ListByPR lists a PR's purchase orders, newest first
	ListByPR(ctx context.Context, prID int64) ([]PurchaseOrder, error)
}

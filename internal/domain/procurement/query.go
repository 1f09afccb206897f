package procurement

import (
	"time"

	"github.com/shopspring/decimal"
)

// PRItemDetail is a PR line joined with its master item
type PRItemDetail struct {
	PRItem
	SKU         string
	ItemName    string
	Description string
	Unit        string
}

// PRDetail is a PR joined with its store, department and user names
type PRDetail struct {
	PR             PurchaseRequisition
	StoreName      string
	DepartmentName string
	RequesterName  string
	ApproverName   string
	Items          []PRItemDetail
}

// PRSummary is a list row of a store's requisitions
type PRSummary struct {
	ID             int64
	PRNumber       string
	StoreID        int64
	StoreName      string
	DepartmentName string
	RequesterID    int64
	RequesterName  string
	Status         PRStatus
	Priority       Priority
	RequiredDate   time.Time
	Notes          string
	ItemCount      int
	EstimatedTotal decimal.Decimal
	CreatedAt      time.Time
}

// DeliveryRow is a receivable requisition with its due date, for dashboards
type DeliveryRow struct {
	ID             int64
	PRNumber       string
	StoreID        int64
	StoreName      string
	RequesterID    int64
	RequesterName  string
	Status         PRStatus
	Priority       Priority
	RequiredDate   time.Time
	ItemCount      int
	EstimatedTotal decimal.Decimal
}

// PendingApprovalRow is a requisition waiting for a decision
type PendingApprovalRow struct {
	ID             int64
	PRNumber       string
	StoreID        int64
	StoreName      string
	RequesterID    int64
	RequesterName  string
	Priority       Priority
	RequiredDate   time.Time
	ItemCount      int
	EstimatedTotal decimal.Decimal
	CreatedAt      time.Time
}

// ListFilter narrows PR list queries. CreatedFrom is inclusive and
// CreatedBefore exclusive.
type ListFilter struct {
	Status        *PRStatus
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Limit         int
}

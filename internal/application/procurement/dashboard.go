package procurement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
)

// DashboardConfig tunes the delivery dashboards
type DashboardConfig struct {
	// UpcomingDays is the look-ahead window of upcoming deliveries
	UpcomingDays int
	// TomorrowBucket classifies next-day deliveries as tomorrow instead of upcoming
	TomorrowBucket bool
}

// DefaultDashboardConfig returns the default dashboard settings
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{UpcomingDays: 7, TomorrowBucket: true}
}

// DeliveryResponse is a receivable PR row of the delivery dashboards
type DeliveryResponse struct {
	ID             int64                `json:"id"`
	PRNumber       string               `json:"pr_number"`
	StoreID        int64                `json:"store_id"`
	StoreName      string               `json:"store_name"`
	RequesterID    int64                `json:"requester_id"`
	RequesterName  string               `json:"requester_name"`
	Status         procurement.PRStatus `json:"status"`
	Priority       procurement.Priority `json:"priority"`
	RequiredDate   string               `json:"required_date"`
	Urgency        procurement.Urgency  `json:"urgency"`
	DaysUntilDue   int                  `json:"days_until_due"`
	DaysOverdue    int                  `json:"days_overdue,omitempty"`
	ItemCount      int                  `json:"item_count"`
	EstimatedTotal decimal.Decimal      `json:"estimated_total"`
}

// PendingApprovalResponse is a row of the approval queue
type PendingApprovalResponse struct {
	ID             int64                `json:"id"`
	PRNumber       string               `json:"pr_number"`
	StoreID        int64                `json:"store_id"`
	StoreName      string               `json:"store_name"`
	RequesterID    int64                `json:"requester_id"`
	RequesterName  string               `json:"requester_name"`
	Priority       procurement.Priority `json:"priority"`
	RequiredDate   string               `json:"required_date"`
	DaysPending    int                  `json:"days_pending"`
	ItemCount      int                  `json:"item_count"`
	EstimatedTotal decimal.Decimal      `json:"estimated_total"`
	CreatedAt      time.Time            `json:"created_at"`
}

// DashboardService answers the approval and delivery dashboard queries
type DashboardService struct {
	prRepo procurement.PurchaseRequisitionRepository
	cfg    DashboardConfig
	clock  shared.Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(prRepo procurement.PurchaseRequisitionRepository, cfg DashboardConfig, clock shared.Clock) *DashboardService {
	if cfg.UpcomingDays <= 0 {
		cfg.UpcomingDays = DefaultDashboardConfig().UpcomingDays
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &DashboardService{prRepo: prRepo, cfg: cfg, clock: clock}
}

// Today returns the current calendar day
func (s *DashboardService) Today() time.Time {
	return shared.DateOnly(s.clock())
}

// PendingApprovals lists PRs awaiting approval, oldest first
func (s *DashboardService) PendingApprovals(ctx context.Context, storeID *int64) ([]PendingApprovalResponse, error) {
	rows, err := s.prRepo.ListPendingApprovals(ctx, storeID)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	responses := make([]PendingApprovalResponse, len(rows))
	for i, row := range rows {
		responses[i] = PendingApprovalResponse{
			ID:             row.ID,
			PRNumber:       row.PRNumber,
			StoreID:        row.StoreID,
			StoreName:      row.StoreName,
			RequesterID:    row.RequesterID,
			RequesterName:  row.RequesterName,
			Priority:       row.Priority,
			RequiredDate:   row.RequiredDate.Format(time.DateOnly),
			DaysPending:    procurement.DaysBetween(row.CreatedAt, today),
			ItemCount:      row.ItemCount,
			EstimatedTotal: row.EstimatedTotal,
			CreatedAt:      row.CreatedAt,
		}
	}
	return responses, nil
}

// UpcomingDeliveries lists receivable PRs due within days (overdue ones included)
func (s *DashboardService) UpcomingDeliveries(ctx context.Context, storeID *int64, days int) ([]DeliveryResponse, error) {
	if days <= 0 {
		days = s.cfg.UpcomingDays
	}
	today := s.Today()

	rows, err := s.prRepo.ListReceivableDueBy(ctx, storeID, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return s.toDeliveryResponses(rows, today), nil
}

// OverdueDeliveries lists receivable PRs past their required date
func (s *DashboardService) OverdueDeliveries(ctx context.Context, storeID *int64) ([]DeliveryResponse, error) {
	today := s.Today()

	rows, err := s.prRepo.ListReceivableOverdue(ctx, storeID, today)
	if err != nil {
		return nil, err
	}
	return s.toDeliveryResponses(rows, today), nil
}

func (s *DashboardService) toDeliveryResponses(rows []procurement.DeliveryRow, today time.Time) []DeliveryResponse {
	responses := make([]DeliveryResponse, len(rows))
	for i, row := range rows {
		until := procurement.DaysBetween(today, row.RequiredDate)
		resp := DeliveryResponse{
			ID:             row.ID,
			PRNumber:       row.PRNumber,
			StoreID:        row.StoreID,
			StoreName:      row.StoreName,
			RequesterID:    row.RequesterID,
			RequesterName:  row.RequesterName,
			Status:         row.Status,
			Priority:       row.Priority,
			RequiredDate:   row.RequiredDate.Format(time.DateOnly),
			Urgency:        procurement.ClassifyUrgency(row.RequiredDate, today, s.cfg.TomorrowBucket),
			DaysUntilDue:   until,
			ItemCount:      row.ItemCount,
			EstimatedTotal: row.EstimatedTotal,
		}
		if until < 0 {
			resp.DaysOverdue = -until
		}
		responses[i] = resp
	}
	return responses
}

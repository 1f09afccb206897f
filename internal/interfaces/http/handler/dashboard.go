package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	procurementapp "github.com/wms/backend/internal/application/procurement"
)

// DashboardQueries answers the approval and delivery dashboards
type DashboardQueries interface {
	PendingApprovals(ctx context.Context, storeID *int64) ([]procurementapp.PendingApprovalResponse, error)
	UpcomingDeliveries(ctx context.Context, storeID *int64, days int) ([]procurementapp.DeliveryResponse, error)
	OverdueDeliveries(ctx context.Context, storeID *int64) ([]procurementapp.DeliveryResponse, error)
}

// DashboardHandler handles dashboard endpoints. Admins see every store
// unless they pass ?store_id=.
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardQueries
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard DashboardQueries) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// PendingApprovals lists PRs waiting for approval, oldest first
// @ID           listPendingApprovals
// @Summary      List PRs waiting for approval
// @Tags         dashboard
// @Produce      json
// @Param        store_id query int false "Store, required for admins"
// @Success      200 {object} APIResponse[[]procurementapp.PendingApprovalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/pending-approvals [get]
func (h *DashboardHandler) PendingApprovals(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	storeID, ok := h.storeScope(c, claims)
	if !ok {
		return
	}
	rows, err := h.dashboard.PendingApprovals(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// UpcomingDeliveries lists receivable PRs due within ?days= (0 uses the configured window)
// @ID           listUpcomingDeliveries
// @Summary      List receivable PRs due soon
// @Tags         dashboard
// @Produce      json
// @Param        store_id query int false "Store, required for admins"
// @Param        days query int false "Window in days, 0 uses the configured default"
// @Success      200 {object} APIResponse[[]procurementapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/upcoming-deliveries [get]
func (h *DashboardHandler) UpcomingDeliveries(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	storeID, ok := h.storeScope(c, claims)
	if !ok {
		return
	}
	days, ok := h.queryInt(c, "days", 0)
	if !ok {
		return
	}
	rows, err := h.dashboard.UpcomingDeliveries(c.Request.Context(), storeID, days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// OverdueDeliveries lists receivable PRs past their required date
// @ID           listOverdueDeliveries
// @Summary      List receivable PRs past their required date
// @Tags         dashboard
// @Produce      json
// @Param        store_id query int false "Store, required for admins"
// @Success      200 {object} APIResponse[[]procurementapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/overdue-deliveries [get]
func (h *DashboardHandler) OverdueDeliveries(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	storeID, ok := h.storeScope(c, claims)
	if !ok {
		return
	}
	rows, err := h.dashboard.OverdueDeliveries(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

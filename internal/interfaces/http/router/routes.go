package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/interfaces/http/handler"
)

// Handlers are the endpoint handlers of the API. Auth may be nil when no
// token blacklist is configured.
type Handlers struct {
	Procurement  *handler.ProcurementHandler
	Dashboard    *handler.DashboardHandler
	Inventory    *handler.InventoryHandler
	Notification *handler.NotificationHandler
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
}

// RegisterAPI adds every domain group to the router. receiveGuard runs in
// front of the receive endpoint only (the Idempotency-Key middleware).
func RegisterAPI(r *Router, h Handlers, receiveGuard ...gin.HandlerFunc) {
	prs := NewDomainGroup("procurement", "/prs").
		GET("", h.Procurement.List).
		POST("", h.Procurement.Create).
		GET("/export", h.Procurement.ExportList).
		GET("/:id", h.Procurement.Get).
		POST("/:id/approve", h.Procurement.Approve).
		POST("/:id/reject", h.Procurement.Reject).
		POST("/:id/cancel", h.Procurement.Cancel).
		POST("/:id/receive", append(receiveGuard, h.Procurement.Receive)...).
		GET("/:id/export", h.Procurement.Export).
		POST("/:id/export/archive", h.Procurement.Archive).
		GET("/:id/purchase-orders", h.Procurement.PurchaseOrders)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		GET("/pending-approvals", h.Dashboard.PendingApprovals).
		GET("/upcoming-deliveries", h.Dashboard.UpcomingDeliveries).
		GET("/overdue-deliveries", h.Dashboard.OverdueDeliveries)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.Group("store-items", "/store-items").
		GET("", h.Inventory.ListStoreItems).
		GET("/:id", h.Inventory.GetStoreItem).
		GET("/:id/lots", h.Inventory.ListLots).
		GET("/:id/transactions", h.Inventory.ListTransactions).
		GET("/:id/balance", h.Inventory.VerifyBalance).
		PUT("/:id/reorder-policy", h.Inventory.SetReorderPolicy)

	notifications := NewDomainGroup("notifications", "/notifications").
		GET("", h.Notification.List).
		GET("/unread-count", h.Notification.UnreadCount).
		POST("/read-all", h.Notification.MarkAllAsRead).
		POST("/:id/read", h.Notification.MarkAsRead)

	system := NewDomainGroup("system", "").
		GET("/health", h.Health.Health)
	if h.Auth != nil {
		system.POST("/auth/logout", h.Auth.Logout)
	}

	r.Register(prs).
		Register(dashboard).
		Register(inventory).
		Register(notifications).
		Register(system)
}

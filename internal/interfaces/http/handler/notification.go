package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	notificationapp "github.com/wms/backend/internal/application/notification"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// Inbox is the caller's notification inbox
type Inbox interface {
	List(ctx context.Context, userID int64, in notificationapp.ListInput) ([]notificationapp.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
}

// NotificationHandler handles the caller's notifications
type NotificationHandler struct {
	BaseHandler
	inbox Inbox
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inbox Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List returns the caller's notifications, filtered by ?unread_only=&type=&limit=
// @ID           listNotifications
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Param        unread_only query bool false "Only unread"
// @Param        type query string false "Notification type"
// @Param        limit query int false "At most 100"
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}

	in := notificationapp.ListInput{Type: c.Query("type")}
	if raw := c.Query("unread_only"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "unread_only must be a boolean")
			return
		}
		in.UnreadOnly = unread
	}
	if in.Limit, ok = h.queryInt(c, "limit", notificationapp.MaxListLimit); !ok {
		return
	}

	items, err := h.inbox.List(c.Request.Context(), claims.UserID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UnreadCount returns how many unread notifications the caller has
// @ID           countUnreadNotifications
// @Summary      Count the caller's unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[dto.CountResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	count, err := h.inbox.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CountResponse{Count: count})
}

// MarkAsRead marks one of the caller's notifications as read
// @ID           markNotificationRead
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path int true "Notification ID"
// @Success      200 {object} APIResponse[dto.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inbox.MarkAsRead(c.Request.Context(), id, claims.UserID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ActionResponse{ID: id, Success: true})
}

// MarkAllAsRead marks every unread notification of the caller as read
// @ID           markAllNotificationsRead
// @Summary      Mark every notification of the caller as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[dto.CountResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	count, err := h.inbox.MarkAllAsRead(c.Request.Context(), claims.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CountResponse{Count: count})
}

package notification

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Type categorizes a notification
type Type string

const (
	TypePRApproved      Type = "pr_approved"
	TypePRRejected      Type = "pr_rejected"
	TypePRReceived      Type = "pr_received"
	TypeLowStock        Type = "low_stock"
	TypeDeliveryToday   Type = "delivery_today"
	TypeDeliveryOverdue Type = "delivery_overdue"
	TypePendingApproval Type = "pending_approval"
	TypeSystem          Type = "system"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypePRApproved, TypePRRejected, TypePRReceived, TypeLowStock,
		TypeDeliveryToday, TypeDeliveryOverdue, TypePendingApproval, TypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message to one user
type Notification struct {
	shared.BaseEntity
	UserID  int64
	Type    Type
	Title   string
	Message string
	Data    json.RawMessage
	Link    string
	IsRead  bool
	ReadAt  *time.Time
}

// New creates an unread notification
func New(userID int64, typ Type, title, message string, data any, link string) (*Notification, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", "Unknown notification type "+string(typ))
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}

	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, shared.WrapDomainError("INVALID_DATA", "Notification data is not serializable", err)
		}
		raw = b
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
		Data:       raw,
		Link:       link,
	}, nil
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
}

// ListFilter narrows a user's notification list
type ListFilter struct {
	UnreadOnly bool
	Type       *Type
	Limit      int
}

// Repository defines notification persistence
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, ns []*Notification) error
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	// MarkRead returns ErrNotFound unless the notification belongs to the user
	MarkRead(ctx context.Context, id, userID int64, at time.Time) error
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// ExistsSince reports whether the user already got a notification of the type and link since the time
	ExistsSince(ctx context.Context, userID int64, typ Type, link string, since time.Time) (bool, error)
}

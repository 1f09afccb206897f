package notification

import (
	"encoding/json"
	"time"

	"github.com/wms/backend/internal/domain/notification"
)

// MaxListLimit caps a notification list page
const MaxListLimit = 100

// ListInput filters a user's notification list
type ListInput struct {
	UnreadOnly bool
	Type       string
	Limit      int
}

// Message is the content of a notification before it is addressed
type Message struct {
	Type    notification.Type
	Title   string
	Message string
	Data    any
	Link    string
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Type      notification.Type `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      json.RawMessage   `json:"data,omitempty"`
	Link      string            `json:"link,omitempty"`
	IsRead    bool              `json:"is_read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToNotificationResponse converts a notification to its response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Link:      n.Link,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

package models

import (
	"encoding/json"
	"time"

	"github.com/wms/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for in-app notifications
type NotificationModel struct {
	BaseModel
	UserID  int64  `gorm:"not null;index:idx_notifications_user_read,priority:1"`
	Type    string `gorm:"type:varchar(50);not null"`
	Title   string `gorm:"type:varchar(200);not null"`
	Message string `gorm:"type:text"`
	Data    []byte `gorm:"type:jsonb"`
	Link    string `gorm:"type:varchar(500)"`
	IsRead  bool   `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	var data json.RawMessage
	if len(m.Data) > 0 {
		data = json.RawMessage(m.Data)
	}
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Type:       notification.Type(m.Type),
		Title:      m.Title,
		Message:    m.Message,
		Data:       data,
		Link:       m.Link,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
	}
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		Link:    n.Link,
		IsRead:  n.IsRead,
		ReadAt:  n.ReadAt,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	if len(n.Data) > 0 {
		m.Data = []byte(n.Data)
	}
	return m
}

package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/notification"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// notificationBatchSize caps the rows per INSERT of CreateBatch
const notificationBatchSize = 200

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts a notification and assigns its ID
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	n.ID = model.ID
	return nil
}

// CreateBatch inserts notifications in batches and assigns their IDs
func (r *GormNotificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, len(ns))
	for i, n := range ns {
		rows[i] = models.NotificationModelFromDomain(n)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(rows, notificationBatchSize).Error; err != nil {
		return err
	}
	for i := range ns {
		ns[i].ID = rows[i].ID
	}
	return nil
}

// ListByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByUser(ctx context.Context, userID int64, filter notification.ListFilter) ([]notification.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.NotificationModel
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one of the user's notifications as read. Marking an already
// read notification succeeds.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, id, userID int64, at time.Time) error {
	var model models.NotificationModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		return translateNotFound(err)
	}
	if model.IsRead {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_read": true, "read_at": at, "updated_at": at}).Error
}

// MarkAllRead flags every unread notification of the user and returns how many changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at, "updated_at": at})
	return result.RowsAffected, result.Error
}

// DeleteOlderThan removes notifications created before the cutoff
func (r *GormNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.NotificationModel{})
	return result.RowsAffected, result.Error
}

// ExistsSince reports whether the user got a notification of the type and link since the time
func (r *GormNotificationRepository) ExistsSince(ctx context.Context, userID int64, typ notification.Type, link string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND type = ? AND link = ? AND created_at >= ?", userID, string(typ), link, since).
		Count(&count).Error
	return count > 0, err
}

var _ notification.Repository = (*GormNotificationRepository)(nil)

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/wms/backend/internal/domain/notification"
	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultRetentionDays is how long notifications are kept
const DefaultRetentionDays = 30

// NotificationService creates and serves in-app notifications
type NotificationService struct {
	repo   notification.Repository
	users  organization.UserRepository
	clock  shared.Clock
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository, users organization.UserRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		repo:   repo,
		users:  users,
		clock:  shared.SystemClock,
		logger: logger,
	}
}

// SetClock overrides the clock used for read timestamps and retention
func (s *NotificationService) SetClock(clock shared.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Create stores a notification for one user
func (s *NotificationService) Create(ctx context.Context, userID int64, msg Message) (*NotificationResponse, error) {
	n, err := notification.New(userID, msg.Type, msg.Title, msg.Message, msg.Data, msg.Link)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.Debug("Notification created",
		zap.Int64("user_id", userID),
		zap.String("type", string(msg.Type)),
	)
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// CreateForStore notifies every active user of a store
func (s *NotificationService) CreateForStore(ctx context.Context, storeID int64, msg Message) (int, error) {
	return s.CreateForRole(ctx, storeID, []organization.Role{organization.RoleUser, organization.RoleManager, organization.RoleAdmin}, msg)
}

// CreateForRole notifies the active users of a store holding one of the roles
func (s *NotificationService) CreateForRole(ctx context.Context, storeID int64, roles []organization.Role, msg Message) (int, error) {
	users, err := s.users.FindByStoreAndRoles(ctx, storeID, roles...)
	if err != nil {
		return 0, fmt.Errorf("find recipients: %w", err)
	}
	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return s.createBatch(ctx, ids, msg)
}

func (s *NotificationService) createBatch(ctx context.Context, userIDs []int64, msg Message) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	batch := make([]*notification.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		n, err := notification.New(id, msg.Type, msg.Title, msg.Message, msg.Data, msg.Link)
		if err != nil {
			return 0, err
		}
		batch = append(batch, n)
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("create notifications: %w", err)
	}
	return len(batch), nil
}

// List returns a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID int64, in ListInput) ([]NotificationResponse, error) {
	filter := notification.ListFilter{UnreadOnly: in.UnreadOnly, Limit: in.Limit}
	if in.Type != "" {
		typ := notification.Type(in.Type)
		if !typ.IsValid() {
			return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", fmt.Sprintf("Unknown notification type %q", in.Type))
		}
		filter.Type = &typ
	}
	if filter.Limit <= 0 || filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	items, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses, nil
}

// UnreadCount returns how many unread notifications a user has
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID, s.clock())
}

// MarkAllAsRead marks all of the user's notifications as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.clock())
}

// DeleteOlderThan purges notifications created more than days ago
func (s *NotificationService) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = DefaultRetentionDays
	}
	cutoff := s.clock().Add(-time.Duration(days) * 24 * time.Hour)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Old notifications purged",
		zap.Int("retention_days", days),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

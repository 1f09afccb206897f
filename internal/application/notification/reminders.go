package notification

import (
	"context"
	"fmt"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/notification"
	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var allRoles = []organization.Role{organization.RoleUser, organization.RoleManager, organization.RoleAdmin}

// ReminderService sends the daily delivery and stock reminders.
// Every reminder goes out at most once per user, link and day, so reruns are safe.
type ReminderService struct {
	notifications *NotificationService
	repo          notification.Repository
	users         organization.UserRepository
	prRepo        procurement.PurchaseRequisitionRepository
	storeItems    inventory.StoreItemRepository
	masterItems   catalog.MasterItemRepository
	retentionDays int
	clock         shared.Clock
	logger        *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	notifications *NotificationService,
	repo notification.Repository,
	users organization.UserRepository,
	prRepo procurement.PurchaseRequisitionRepository,
	storeItems inventory.StoreItemRepository,
	masterItems catalog.MasterItemRepository,
	retentionDays int,
	logger *zap.Logger,
) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &ReminderService{
		notifications: notifications,
		repo:          repo,
		users:         users,
		prRepo:        prRepo,
		storeItems:    storeItems,
		masterItems:   masterItems,
		retentionDays: retentionDays,
		clock:         shared.SystemClock,
		logger:        logger,
	}
}

// SetClock overrides the clock that decides what today is
func (s *ReminderService) SetClock(clock shared.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// SendDeliveryReminders notifies stores of receivable PRs due today or overdue
func (s *ReminderService) SendDeliveryReminders(ctx context.Context) (int, error) {
	today := shared.DateOnly(s.clock())

	rows, err := s.prRepo.ListReceivableDueBy(ctx, nil, today)
	if err != nil {
		return 0, fmt.Errorf("list due deliveries: %w", err)
	}

	sent := 0
	for _, row := range rows {
		data := map[string]any{"pr_id": row.ID, "pr_number": row.PRNumber}
		msg := Message{
			Type:    notification.TypeDeliveryToday,
			Title:   "Delivery due today",
			Message: fmt.Sprintf("PR %s is due for delivery today", row.PRNumber),
			Data:    data,
			Link:    prLink(row.ID),
		}
		if days := procurement.DaysBetween(row.RequiredDate, today); days > 0 {
			data["days_overdue"] = days
			msg.Type = notification.TypeDeliveryOverdue
			msg.Title = "Delivery overdue"
			msg.Message = fmt.Sprintf("PR %s is %d days overdue", row.PRNumber, days)
		}

		n, err := s.notifyStoreOnce(ctx, row.StoreID, msg)
		if err != nil {
			return sent, err
		}
		sent += n
	}

	s.logger.Info("Delivery reminders sent",
		zap.Int("prs", len(rows)),
		zap.Int("notifications", sent),
	)
	return sent, nil
}

// SendLowStockAlerts notifies stores of items at or below their reorder point
func (s *ReminderService) SendLowStockAlerts(ctx context.Context) (int, error) {
	items, err := s.storeItems.FindBelowReorderPoint(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list low stock items: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].MasterItemID
	}
	masters, err := s.masterItems.FindByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("load master items: %w", err)
	}
	byID := make(map[int64]catalog.MasterItem, len(masters))
	for _, m := range masters {
		byID[m.ID] = m
	}

	sent := 0
	for i := range items {
		item := &items[i]
		master := byID[item.MasterItemID]
		urgency, title := "warning", "Low stock"
		if item.Quantity <= item.SafetyStock {
			urgency, title = "critical", "Critical stock"
		}

		n, err := s.notifyStoreOnce(ctx, item.StoreID, Message{
			Type:    notification.TypeLowStock,
			Title:   title,
			Message: fmt.Sprintf("%s (%s) has %d %s left", master.Name, master.SKU, item.Quantity, master.Unit),
			Data: map[string]any{
				"store_item_id":     item.ID,
				"sku":               master.SKU,
				"quantity":          item.Quantity,
				"reorder_point":     item.ReorderPoint,
				"suggested_reorder": item.SuggestedReorderQuantity(),
				"urgency":           urgency,
			},
			Link: fmt.Sprintf("/inventory/store-items/%d", item.ID),
		})
		if err != nil {
			return sent, err
		}
		sent += n
	}

	s.logger.Info("Low stock alerts sent",
		zap.Int("items", len(items)),
		zap.Int("notifications", sent),
	)
	return sent, nil
}

// PurgeExpired deletes notifications past the retention window
func (s *ReminderService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.notifications.DeleteOlderThan(ctx, s.retentionDays)
}

// notifyStoreOnce sends msg to the store's users who did not get it today
func (s *ReminderService) notifyStoreOnce(ctx context.Context, storeID int64, msg Message) (int, error) {
	users, err := s.users.FindByStoreAndRoles(ctx, storeID, allRoles...)
	if err != nil {
		return 0, fmt.Errorf("find recipients: %w", err)
	}

	since := shared.DateOnly(s.clock())
	recipients := make([]int64, 0, len(users))
	for i := range users {
		seen, err := s.repo.ExistsSince(ctx, users[i].ID, msg.Type, msg.Link, since)
		if err != nil {
			return 0, err
		}
		if !seen {
			recipients = append(recipients, users[i].ID)
		}
	}
	return s.notifications.createBatch(ctx, recipients, msg)
}

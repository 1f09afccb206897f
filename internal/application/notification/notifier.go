package notification

import (
	"context"
	"fmt"

	"github.com/wms/backend/internal/domain/notification"
	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProcurementNotifier turns PR workflow events into notifications
type ProcurementNotifier struct {
	service *NotificationService
	users   organization.UserRepository
	stores  organization.StoreRepository
	logger  *zap.Logger
}

// NewProcurementNotifier creates a new ProcurementNotifier
func NewProcurementNotifier(service *NotificationService, users organization.UserRepository, stores organization.StoreRepository, logger *zap.Logger) *ProcurementNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcurementNotifier{
		service: service,
		users:   users,
		stores:  stores,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProcurementNotifier) EventTypes() []string {
	return []string{
		procurement.EventTypePRCreated,
		procurement.EventTypePRApproved,
		procurement.EventTypePRRejected,
		procurement.EventTypeGoodsReceived,
	}
}

// Handle processes a domain event
func (h *ProcurementNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *procurement.PRCreatedEvent:
		return h.onCreated(ctx, e)
	case *procurement.PRApprovedEvent:
		return h.onApproved(ctx, e)
	case *procurement.PRRejectedEvent:
		return h.onRejected(ctx, e)
	case *procurement.GoodsReceivedEvent:
		return h.onGoodsReceived(ctx, e)
	default:
		h.logger.Debug("Ignoring event", zap.String("event_type", event.EventType()))
		return nil
	}
}

func prLink(prID int64) string {
	return fmt.Sprintf("/prs/%d", prID)
}

func prData(prID int64, prNumber string) map[string]any {
	return map[string]any{"pr_id": prID, "pr_number": prNumber}
}

// onCreated asks the store's approvers to review a pending PR
func (h *ProcurementNotifier) onCreated(ctx context.Context, e *procurement.PRCreatedEvent) error {
	if e.Status != procurement.PRStatusPending {
		return nil
	}

	requester := h.userName(ctx, e.RequesterID)
	storeName := fmt.Sprintf("store %d", e.StoreID)
	if store, err := h.stores.FindByID(ctx, e.StoreID); err == nil {
		storeName = store.Name
	}

	sent, err := h.service.CreateForRole(ctx, e.StoreID, []organization.Role{organization.RoleManager, organization.RoleAdmin}, Message{
		Type:    notification.TypePendingApproval,
		Title:   "PR awaiting approval",
		Message: fmt.Sprintf("%s requests approval of PR %s from %s", requester, e.PRNumber, storeName),
		Data:    prData(e.PRID, e.PRNumber),
		Link:    prLink(e.PRID) + "/approve",
	})
	if err != nil {
		return err
	}
	h.logger.Debug("Approvers notified", zap.String("pr_number", e.PRNumber), zap.Int("recipients", sent))
	return nil
}

func (h *ProcurementNotifier) onApproved(ctx context.Context, e *procurement.PRApprovedEvent) error {
	_, err := h.service.Create(ctx, e.RequesterID, Message{
		Type:    notification.TypePRApproved,
		Title:   "PR approved",
		Message: fmt.Sprintf("PR %s was approved by %s", e.PRNumber, h.userName(ctx, e.ApproverID)),
		Data:    prData(e.PRID, e.PRNumber),
		Link:    prLink(e.PRID),
	})
	return err
}

func (h *ProcurementNotifier) onRejected(ctx context.Context, e *procurement.PRRejectedEvent) error {
	data := prData(e.PRID, e.PRNumber)
	data["reason"] = e.Reason
	_, err := h.service.Create(ctx, e.RequesterID, Message{
		Type:    notification.TypePRRejected,
		Title:   "PR rejected",
		Message: fmt.Sprintf("PR %s was rejected: %s", e.PRNumber, e.Reason),
		Data:    data,
		Link:    prLink(e.PRID),
	})
	return err
}

func (h *ProcurementNotifier) onGoodsReceived(ctx context.Context, e *procurement.GoodsReceivedEvent) error {
	message := fmt.Sprintf("PR %s received goods", e.PRNumber)
	if e.PONumber != "" {
		message = fmt.Sprintf("PR %s received from PO %s", e.PRNumber, e.PONumber)
	}
	data := prData(e.PRID, e.PRNumber)
	data["status"] = e.Status
	data["lines"] = len(e.Lines)

	_, err := h.service.Create(ctx, e.RequesterID, Message{
		Type:    notification.TypePRReceived,
		Title:   "Goods received",
		Message: message,
		Data:    data,
		Link:    prLink(e.PRID),
	})
	return err
}

func (h *ProcurementNotifier) userName(ctx context.Context, userID int64) string {
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	return user.DisplayName()
}

var _ shared.EventHandler = (*ProcurementNotifier)(nil)

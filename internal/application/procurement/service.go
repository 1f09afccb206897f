package procurement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	appinv "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WorkflowConfig selects the workflow variant
type WorkflowConfig struct {
	// RequiresPurchaseOrder makes receipts go through a supplier PO
	// (po_number and supplier_name become mandatory)
	RequiresPurchaseOrder bool
	// RequiresApproval starts PRs in pending; otherwise they start in ordered
	RequiresApproval bool
}

// DefaultWorkflowConfig is the PO-mediated workflow with approval
func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		RequiresPurchaseOrder: true,
		RequiresApproval:      true,
	}
}

// WorkflowService drives PRs through create, approve or reject, export and receive
type WorkflowService struct {
	cfg       WorkflowConfig
	scope     TransactionScope
	prRepo    procurement.PurchaseRequisitionRepository
	poRepo    procurement.PurchaseOrderRepository
	ledger    *appinv.Ledger
	prNumbers shared.NumberGenerator
	clock     shared.Clock
	publisher shared.EventPublisher
	metrics   WorkflowMetrics
	logger    *zap.Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	cfg WorkflowConfig,
	scope TransactionScope,
	prRepo procurement.PurchaseRequisitionRepository,
	poRepo procurement.PurchaseOrderRepository,
	ledger *appinv.Ledger,
	prNumbers shared.NumberGenerator,
	logger *zap.Logger,
) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		cfg:       cfg,
		scope:     scope,
		prRepo:    prRepo,
		poRepo:    poRepo,
		ledger:    ledger,
		prNumbers: prNumbers,
		clock:     shared.SystemClock,
		metrics:   noopMetrics{},
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WorkflowService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetMetrics sets the workflow metrics recorder
func (s *WorkflowService) SetMetrics(metrics WorkflowMetrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetClock overrides the clock used for default received dates
func (s *WorkflowService) SetClock(clock shared.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Config returns the workflow variant in use
func (s *WorkflowService) Config() WorkflowConfig {
	return s.cfg
}

// maxNumberAttempts bounds how many taken PR numbers CreatePR skips
const maxNumberAttempts = 5

// nextPRNumber draws numbers until one is not stored yet
func (s *WorkflowService) nextPRNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := s.prNumbers.Next()
		taken, err := s.prRepo.ExistsByPRNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check PR number: %w", err)
		}
		if !taken {
			return number, nil
		}
		s.logger.Warn("PR number already taken, drawing another", zap.String("pr_number", number))
	}
	return "", shared.NewDomainError("ALREADY_EXISTS", "Could not allocate a free PR number")
}

// CreatePR stores a new PR with its lines
func (s *WorkflowService) CreatePR(ctx context.Context, in CreatePRInput) (*CreatePRResult, error) {
	priority, ok := procurement.ParsePriority(in.Priority)
	if !ok {
		return nil, shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Unknown priority %q", in.Priority))
	}
	if len(in.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "PR must have at least one item")
	}

	initial := procurement.PRStatusOrdered
	if s.cfg.RequiresApproval {
		initial = procurement.PRStatusPending
	}

	number, err := s.nextPRNumber(ctx)
	if err != nil {
		return nil, err
	}
	pr, err := procurement.NewPurchaseRequisition(number, in.StoreID, in.RequesterID, priority, in.RequiredDate, in.Notes, initial)
	if err != nil {
		return nil, err
	}
	for _, line := range in.Items {
		cost := decimal.Zero
		if line.EstimatedUnitCost != nil {
			cost = *line.EstimatedUnitCost
		}
		if _, err := pr.AddItem(line.MasterItemID, line.Quantity, cost, line.Notes); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.PRRepo().Create(ctx, pr); err != nil {
			return err
		}
		pr.RecordCreated()
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create PR", zap.String("pr_number", pr.PRNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("PR created",
		zap.Int64("pr_id", pr.ID),
		zap.String("pr_number", pr.PRNumber),
		zap.Int64("store_id", pr.StoreID),
		zap.String("status", pr.Status.String()),
		zap.Int("items", len(pr.Items)),
	)
	s.metrics.PRCreated(pr.Priority)
	s.publishDomainEvents(ctx, pr)

	return &CreatePRResult{ID: pr.ID, PRNumber: pr.PRNumber}, nil
}

// ApprovePR approves a pending PR
func (s *WorkflowService) ApprovePR(ctx context.Context, prID, approverID int64, notes *string) (bool, error) {
	pr, err := s.transition(ctx, prID, func(pr *procurement.PurchaseRequisition) error {
		return pr.Approve(approverID, notes)
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("PR approved",
		zap.Int64("pr_id", pr.ID),
		zap.String("pr_number", pr.PRNumber),
		zap.Int64("approver_id", approverID),
	)
	return true, nil
}

// RejectPR rejects a pending or approved PR. The reason replaces the notes.
func (s *WorkflowService) RejectPR(ctx context.Context, prID, approverID int64, reason string) (bool, error) {
	if strings.TrimSpace(reason) == "" {
		return false, shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	pr, err := s.transition(ctx, prID, func(pr *procurement.PurchaseRequisition) error {
		return pr.Reject(approverID, reason)
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("PR rejected",
		zap.Int64("pr_id", pr.ID),
		zap.String("pr_number", pr.PRNumber),
		zap.Int64("approver_id", approverID),
	)
	return true, nil
}

// CancelPR withdraws a PR that has not received any goods
func (s *WorkflowService) CancelPR(ctx context.Context, prID, userID int64, reason string) (bool, error) {
	pr, err := s.transition(ctx, prID, func(pr *procurement.PurchaseRequisition) error {
		return pr.Cancel(userID, reason)
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("PR cancelled",
		zap.Int64("pr_id", pr.ID),
		zap.String("pr_number", pr.PRNumber),
		zap.Int64("user_id", userID),
	)
	return true, nil
}

// transition loads the PR under lock, applies fn and saves it in one transaction
func (s *WorkflowService) transition(ctx context.Context, prID int64, fn func(*procurement.PurchaseRequisition) error) (*procurement.PurchaseRequisition, error) {
	var pr *procurement.PurchaseRequisition
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		loaded, err := repos.PRRepo().FindForUpdate(ctx, prID)
		if err != nil {
			return err
		}
		if err := fn(loaded); err != nil {
			return err
		}
		if err := repos.PRRepo().Save(ctx, loaded); err != nil {
			return err
		}
		pr = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PRTransitioned(pr.Status)
	s.publishDomainEvents(ctx, pr)
	return pr, nil
}

// ReceiveGoods applies a delivery against a PR. Every line, the PO upsert and
// the status recompute commit together or not at all. Lines naming an item
// the PR does not have are skipped.
func (s *WorkflowService) ReceiveGoods(ctx context.Context, prID int64, in ReceiveGoodsInput) (*ReceiveGoodsResult, error) {
	if err := s.validateReceive(in); err != nil {
		return nil, err
	}

	receivedDate := s.clock()
	if in.ReceivedDate != nil && !in.ReceivedDate.IsZero() {
		receivedDate = *in.ReceivedDate
	}
	receivedDate = shared.DateOnly(receivedDate)
	poNumber := strings.TrimSpace(in.PONumber)
	supplierName := strings.TrimSpace(in.SupplierName)

	var (
		pr     *procurement.PurchaseRequisition
		result *ReceiveGoodsResult
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		loaded, err := repos.PRRepo().FindForUpdate(ctx, prID)
		if err != nil {
			return err
		}
		if err := loaded.EnsureReceivable(); err != nil {
			return err
		}
		if supplierName == "" {
			supplierName = loaded.SupplierName
		}

		var poID *int64
		if s.cfg.RequiresPurchaseOrder {
			po, err := s.upsertPurchaseOrder(ctx, repos, loaded, poNumber, supplierName, in, receivedDate)
			if err != nil {
				return err
			}
			id := po.ID
			poID = &id
		}

		names, err := s.itemNames(ctx, repos, loaded)
		if err != nil {
			return err
		}

		res := &ReceiveGoodsResult{
			PRID:           loaded.ID,
			PONumber:       poNumber,
			SupplierName:   supplierName,
			ReceiveRecords: make([]ReceiveRecord, 0, len(in.Items)),
		}
		lines := make([]procurement.ReceivedLine, 0, len(in.Items))
		for _, req := range in.Items {
			item, found, err := loaded.ReceiveItem(req.PRItemID, req.Quantity)
			if err != nil {
				return err
			}
			if !found {
				s.logger.Debug("Skipping receive line for unknown PR item",
					zap.Int64("pr_id", loaded.ID),
					zap.Int64("pr_item_id", req.PRItemID),
				)
				res.SkippedItemIDs = append(res.SkippedItemIDs, req.PRItemID)
				continue
			}

			unitCost := item.EstimatedUnitCost
			if req.UnitCost != nil && !req.UnitCost.IsZero() {
				unitCost = *req.UnitCost
			}

			line, err := s.ledger.ReceiveLine(ctx, repos, appinv.ReceiveLineInput{
				StoreID:       loaded.StoreID,
				MasterItemID:  item.MasterItemID,
				Quantity:      req.Quantity,
				UnitCost:      unitCost,
				ReceivedDate:  receivedDate,
				PRID:          loaded.ID,
				POID:          poID,
				PONumber:      poNumber,
				SupplierName:  supplierName,
				InvoiceNumber: in.InvoiceNumber,
				ExpiryDate:    req.ExpiryDate,
				Notes:         in.Notes,
				UserID:        in.UserID,
			})
			if err != nil {
				return err
			}

			res.ReceiveRecords = append(res.ReceiveRecords, ReceiveRecord{
				PRItemID:     item.ID,
				MasterItemID: item.MasterItemID,
				ItemName:     names[item.MasterItemID],
				Quantity:     req.Quantity,
				UnitCost:     unitCost,
				TotalCost:    line.TotalCost,
				LotNumber:    line.LotNumber,
			})
			lines = append(lines, procurement.ReceivedLine{
				PRItemID:     item.ID,
				MasterItemID: item.MasterItemID,
				StoreItemID:  line.StoreItemID,
				Quantity:     req.Quantity,
				UnitCost:     unitCost,
				LotNumber:    line.LotNumber,
			})
		}

		res.Status = loaded.RecomputeStatus()
		if err := repos.PRRepo().Save(ctx, loaded); err != nil {
			return err
		}
		if len(lines) > 0 {
			loaded.RecordReceipt(poNumber, supplierName, lines)
		}

		pr, result = loaded, res
		return nil
	})
	if err != nil {
		s.logger.Warn("Receive failed",
			zap.Int64("pr_id", prID),
			zap.String("po_number", poNumber),
			zap.Error(err),
		)
		return nil, err
	}

	quantity := 0
	for _, r := range result.ReceiveRecords {
		quantity += r.Quantity
	}
	s.logger.Info("Goods received",
		zap.Int64("pr_id", pr.ID),
		zap.String("pr_number", pr.PRNumber),
		zap.String("po_number", poNumber),
		zap.String("status", result.Status.String()),
		zap.Int("lines", len(result.ReceiveRecords)),
		zap.Int("skipped", len(result.SkippedItemIDs)),
	)
	s.metrics.GoodsReceived(len(result.ReceiveRecords), quantity, s.cfg.RequiresPurchaseOrder)
	s.metrics.PRTransitioned(result.Status)
	s.publishDomainEvents(ctx, pr)

	return result, nil
}

// validateReceive rejects malformed payloads before anything is written
func (s *WorkflowService) validateReceive(in ReceiveGoodsInput) error {
	if s.cfg.RequiresPurchaseOrder {
		if strings.TrimSpace(in.PONumber) == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "po_number is required")
		}
		if strings.TrimSpace(in.SupplierName) == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "supplier_name is required")
		}
	}
	if len(in.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "At least one item is required")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Receive quantity for PR item %d must be a positive integer", item.PRItemID))
		}
		if item.UnitCost != nil && item.UnitCost.IsNegative() {
			return shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Unit cost for PR item %d cannot be negative", item.PRItemID))
		}
	}
	return nil
}

// upsertPurchaseOrder creates the PO on its first delivery and updates it on later ones
func (s *WorkflowService) upsertPurchaseOrder(ctx context.Context, repos TransactionalRepositories, pr *procurement.PurchaseRequisition, poNumber, supplierName string, in ReceiveGoodsInput, receivedDate time.Time) (*procurement.PurchaseOrder, error) {
	po, err := repos.PORepo().FindByNumberAndPR(ctx, poNumber, pr.ID)
	switch {
	case err == nil:
		if err := po.RecordDelivery(receivedDate, supplierName, in.SupplierContact); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		po, err = procurement.NewReceivedPurchaseOrder(poNumber, pr, supplierName, in.SupplierContact, receivedDate, in.Notes, in.UserID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := repos.PORepo().Save(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// itemNames resolves master item names of the PR lines
func (s *WorkflowService) itemNames(ctx context.Context, repos TransactionalRepositories, pr *procurement.PurchaseRequisition) (map[int64]string, error) {
	ids := make([]int64, 0, len(pr.Items))
	for i := range pr.Items {
		ids = append(ids, pr.Items[i].MasterItemID)
	}
	items, err := repos.MasterItemRepo().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(items))
	for i := range items {
		names[items[i].ID] = items[i].Name
	}
	return names, nil
}

// GetPR returns a PR with its lines and purchase orders
func (s *WorkflowService) GetPR(ctx context.Context, prID int64) (*PRResponse, error) {
	detail, err := s.prRepo.GetDetail(ctx, prID)
	if err != nil {
		return nil, err
	}
	orders, err := s.poRepo.ListByPR(ctx, prID)
	if err != nil {
		return nil, err
	}
	resp := ToPRResponse(detail, orders)
	return &resp, nil
}

// ListPRsByStore lists a store's PRs newest first, optionally by status
func (s *WorkflowService) ListPRsByStore(ctx context.Context, storeID int64, status string) ([]PRListItemResponse, error) {
	filter := procurement.ListFilter{}
	if status != "" {
		st := procurement.PRStatus(status)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", status))
		}
		filter.Status = &st
	}

	summaries, err := s.prRepo.ListByStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PRListItemResponse, len(summaries))
	for i := range summaries {
		responses[i] = ToPRListItemResponse(&summaries[i])
	}
	return responses, nil
}

// ExportPRList lists a store's PRs created between from and to, both days
// inclusive, newest first
func (s *WorkflowService) ExportPRList(ctx context.Context, storeID int64, from, to time.Time) ([]PRExportRow, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	if !start.Before(end) {
		return nil, shared.NewDomainError("INVALID_INPUT", "from must not be after to")
	}

	summaries, err := s.prRepo.ListByStore(ctx, storeID, procurement.ListFilter{
		CreatedFrom:   &start,
		CreatedBefore: &end,
	})
	if err != nil {
		return nil, err
	}
	rows := make([]PRExportRow, len(summaries))
	for i := range summaries {
		rows[i] = ToPRExportRow(&summaries[i])
	}
	return rows, nil
}

// ListPurchaseOrders lists the purchase orders recorded for a PR
func (s *WorkflowService) ListPurchaseOrders(ctx context.Context, prID int64) ([]PurchaseOrderResponse, error) {
	if _, err := s.prRepo.FindByID(ctx, prID); err != nil {
		return nil, err
	}
	orders, err := s.poRepo.ListByPR(ctx, prID)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponses(orders), nil
}

// publishDomainEvents publishes and clears the aggregate's pending events.
// Failures are logged: the state change is already committed.
func (s *WorkflowService) publishDomainEvents(ctx context.Context, pr *procurement.PurchaseRequisition) {
	events := pr.GetDomainEvents()
	pr.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish PR events",
			zap.Int64("pr_id", pr.ID),
			zap.Error(err),
		)
	}
}

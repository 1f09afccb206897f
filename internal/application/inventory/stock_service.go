package inventory

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// DefaultTransactionLimit caps transaction history queries
const DefaultTransactionLimit = 100

// StockService exposes the stock ledger to the API layer
type StockService struct {
	ledger          *Ledger
	scope           TransactionScope
	storeItemRepo   inventory.StoreItemRepository
	lotRepo         inventory.InventoryLotRepository
	transactionRepo inventory.StockTransactionRepository
	logger          *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	ledger *Ledger,
	scope TransactionScope,
	storeItemRepo inventory.StoreItemRepository,
	lotRepo inventory.InventoryLotRepository,
	transactionRepo inventory.StockTransactionRepository,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		ledger:          ledger,
		scope:           scope,
		storeItemRepo:   storeItemRepo,
		lotRepo:         lotRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// ReceiveLine applies a single receipt line in its own transaction
func (s *StockService) ReceiveLine(ctx context.Context, in ReceiveLineInput) (*ReceiveLineResult, error) {
	var result *ReceiveLineResult
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		r, err := s.ledger.ReceiveLine(ctx, repos, in)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListStoreStock lists the items held by a store
func (s *StockService) ListStoreStock(ctx context.Context, storeID int64) ([]StoreItemResponse, error) {
	items, err := s.storeItemRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]StoreItemResponse, len(items))
	for i := range items {
		responses[i] = ToStoreItemResponse(&items[i])
	}
	return responses, nil
}

// GetStoreItem returns a single store item
func (s *StockService) GetStoreItem(ctx context.Context, storeItemID int64) (*StoreItemResponse, error) {
	item, err := s.storeItemRepo.FindByID(ctx, storeItemID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreItemResponse(item)
	return &resp, nil
}

// ReorderPolicyInput holds the replenishment thresholds of a store item
type ReorderPolicyInput struct {
	MinQuantity     int
	ReorderPoint    int
	ReorderQuantity int
	SafetyStock     int
	LeadTimeDays    int
}

// SetReorderPolicy replaces the replenishment thresholds of a store item
func (s *StockService) SetReorderPolicy(ctx context.Context, storeItemID int64, in ReorderPolicyInput) (*StoreItemResponse, error) {
	item, err := s.storeItemRepo.FindByID(ctx, storeItemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetReorderPolicy(in.MinQuantity, in.ReorderPoint, in.ReorderQuantity, in.SafetyStock, in.LeadTimeDays); err != nil {
		return nil, err
	}
	if err := s.storeItemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Reorder policy updated",
		zap.Int64("store_item_id", item.ID),
		zap.Int("reorder_point", item.ReorderPoint),
		zap.Int("reorder_quantity", item.ReorderQuantity),
	)
	resp := ToStoreItemResponse(item)
	return &resp, nil
}

// ListLots lists the lots of a store item
func (s *StockService) ListLots(ctx context.Context, storeItemID int64) ([]LotResponse, error) {
	lots, err := s.lotRepo.FindByStoreItem(ctx, storeItemID)
	if err != nil {
		return nil, err
	}
	responses := make([]LotResponse, len(lots))
	for i := range lots {
		responses[i] = ToLotResponse(&lots[i])
	}
	return responses, nil
}

// ListTransactions lists the most recent stock transactions of a store item
func (s *StockService) ListTransactions(ctx context.Context, storeItemID int64, limit int) ([]TransactionResponse, error) {
	if limit <= 0 || limit > DefaultTransactionLimit {
		limit = DefaultTransactionLimit
	}
	txns, err := s.transactionRepo.FindByStoreItem(ctx, storeItemID, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses, nil
}

// VerifyBalance checks that the on-hand quantity equals the signed transaction sum
func (s *StockService) VerifyBalance(ctx context.Context, storeItemID int64) (*BalanceReport, error) {
	item, err := s.storeItemRepo.FindByID(ctx, storeItemID)
	if err != nil {
		return nil, err
	}
	sum, err := s.transactionRepo.SumSignedQuantity(ctx, storeItemID)
	if err != nil {
		return nil, err
	}

	report := &BalanceReport{
		StoreItemID:    storeItemID,
		Quantity:       item.Quantity,
		LedgerQuantity: sum,
		Consistent:     item.Quantity == sum,
	}
	if !report.Consistent {
		s.logger.Warn("Store item quantity does not match its transactions",
			zap.Int64("store_item_id", storeItemID),
			zap.Int("quantity", item.Quantity),
			zap.Int("ledger_quantity", sum),
		)
	}
	return report, nil
}

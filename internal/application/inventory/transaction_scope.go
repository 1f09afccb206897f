package inventory

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
)

// LedgerRepositories provides the stock ledger repositories.
// All repositories returned share the same underlying database transaction
// when obtained from a TransactionScope.
type LedgerRepositories interface {
	// StoreItemRepo returns the store item repository
	StoreItemRepo() inventory.StoreItemRepository
	// LotRepo returns the inventory lot repository
	LotRepo() inventory.InventoryLotRepository
	// TransactionRepo returns the append-only stock transaction repository
	TransactionRepo() inventory.StockTransactionRepository
}

// TransactionScope provides transactional access to the ledger repositories.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	storeItemRepo   inventory.StoreItemRepository
	lotRepo         inventory.InventoryLotRepository
	transactionRepo inventory.StockTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	storeItemRepo inventory.StoreItemRepository,
	lotRepo inventory.InventoryLotRepository,
	transactionRepo inventory.StockTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		storeItemRepo:   storeItemRepo,
		lotRepo:         lotRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(s)
}

// StoreItemRepo returns the store item repository.
func (s *NoOpTransactionScope) StoreItemRepo() inventory.StoreItemRepository {
	return s.storeItemRepo
}

// LotRepo returns the lot repository.
func (s *NoOpTransactionScope) LotRepo() inventory.InventoryLotRepository {
	return s.lotRepo
}

// TransactionRepo returns the stock transaction repository.
func (s *NoOpTransactionScope) TransactionRepo() inventory.StockTransactionRepository {
	return s.transactionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ LedgerRepositories = (*NoOpTransactionScope)(nil)

package procurement

import (
	"context"

	appinv "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/procurement"
)

// TransactionalRepositories provides every repository a workflow operation
// touches. All repositories share the same underlying database transaction.
type TransactionalRepositories interface {
	appinv.LedgerRepositories
	// PRRepo returns the purchase requisition repository
	PRRepo() procurement.PurchaseRequisitionRepository
	// PORepo returns the purchase order repository
	PORepo() procurement.PurchaseOrderRepository
	// MasterItemRepo returns the catalog repository for line names
	MasterItemRepo() catalog.MasterItemRepository
}

// TransactionScope wraps a workflow operation in one database transaction.
// A failing function rolls back every write it made.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function against plain repositories.
// Used by tests with in-memory fakes.
type NoOpTransactionScope struct {
	appinv.LedgerRepositories
	prRepo         procurement.PurchaseRequisitionRepository
	poRepo         procurement.PurchaseOrderRepository
	masterItemRepo catalog.MasterItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	ledgerRepos appinv.LedgerRepositories,
	prRepo procurement.PurchaseRequisitionRepository,
	poRepo procurement.PurchaseOrderRepository,
	masterItemRepo catalog.MasterItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		LedgerRepositories: ledgerRepos,
		prRepo:             prRepo,
		poRepo:             poRepo,
		masterItemRepo:     masterItemRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PRRepo returns the purchase requisition repository.
func (s *NoOpTransactionScope) PRRepo() procurement.PurchaseRequisitionRepository {
	return s.prRepo
}

// PORepo returns the purchase order repository.
func (s *NoOpTransactionScope) PORepo() procurement.PurchaseOrderRepository {
	return s.poRepo
}

// MasterItemRepo returns the catalog repository.
func (s *NoOpTransactionScope) MasterItemRepo() catalog.MasterItemRepository {
	return s.masterItemRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

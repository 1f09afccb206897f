package procurement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinv "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
)

type workflowFixture struct {
	store     *memoryStore
	service   *WorkflowService
	publisher *recordingPublisher
}

func sequence(prefix string) shared.NumberGenerator {
	n := 0
	return shared.NumberGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%s-20240315-%04d", prefix, n)
	})
}

func newWorkflowFixture(cfg WorkflowConfig) *workflowFixture {
	store := newMemoryStore()
	store.addMasterItem(1, "SKU-FLOUR", "Flour")
	store.addMasterItem(2, "SKU-SUGAR", "Sugar")

	ledgerRepos := appinv.NewNoOpTransactionScope(memoryStoreItemRepo{store}, memoryLotRepo{store}, memoryTxnRepo{store})
	scope := NewNoOpTransactionScope(ledgerRepos, memoryPRRepo{store}, memoryPORepo{store}, memoryMasterItemRepo{store})

	service := NewWorkflowService(cfg, scope, memoryPRRepo{store}, memoryPORepo{store},
		appinv.NewLedger(sequence("LOT"), nil), sequence("PR"), nil)
	service.SetClock(func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) })
	publisher := &recordingPublisher{}
	service.SetEventPublisher(publisher)

	return &workflowFixture{store: store, service: service, publisher: publisher}
}

func cost(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// createApproved creates a PR for 10 flour and 4 sugar and approves it
func (f *workflowFixture) createApproved(t *testing.T) *procurement.PurchaseRequisition {
	t.Helper()
	ctx := context.Background()

	created, err := f.service.CreatePR(ctx, CreatePRInput{
		StoreID:      1,
		RequesterID:  7,
		Priority:     "high",
		RequiredDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Items: []CreatePRLine{
			{MasterItemID: 1, Quantity: 10, EstimatedUnitCost: cost("2.50")},
			{MasterItemID: 2, Quantity: 4, EstimatedUnitCost: cost("1.25")},
		},
	})
	require.NoError(t, err)

	if f.service.Config().RequiresApproval {
		ok, err := f.service.ApprovePR(ctx, created.ID, 9, nil)
		require.NoError(t, err)
		require.True(t, ok)
	}

	pr, err := memoryPRRepo{f.store}.FindByID(ctx, created.ID)
	require.NoError(t, err)
	return pr
}

func (f *workflowFixture) stockOf(masterItemID int64) int {
	item := f.store.storeItemFor(1, masterItemID)
	if item == nil {
		return 0
	}
	return item.Quantity
}

func TestWorkflowService_CreatePR(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()

	created, err := f.service.CreatePR(ctx, CreatePRInput{
		StoreID:      1,
		RequesterID:  7,
		RequiredDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Items:        []CreatePRLine{{MasterItemID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PR-20240315-0001", created.PRNumber)

	pr, err := memoryPRRepo{f.store}.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.PRStatusPending, pr.Status)
	assert.Equal(t, procurement.PriorityNormal, pr.Priority)
	assert.True(t, pr.Items[0].EstimatedUnitCost.IsZero())
	assert.Equal(t, []string{procurement.EventTypePRCreated}, f.publisher.types())
}

func TestWorkflowService_CreatePR_SkipsTakenNumbers(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	in := CreatePRInput{
		StoreID:      1,
		RequesterID:  7,
		RequiredDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Items:        []CreatePRLine{{MasterItemID: 1, Quantity: 3}},
	}

	first, err := f.service.CreatePR(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "PR-20240315-0001", first.PRNumber)

	// a restarted generator hands out 0001 again
	f.service.prNumbers = sequence("PR")
	second, err := f.service.CreatePR(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "PR-20240315-0002", second.PRNumber)

	f.service.prNumbers = shared.NumberGeneratorFunc(func() string { return "PR-20240315-0001" })
	_, err = f.service.CreatePR(ctx, in)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestWorkflowService_CreatePR_DirectWorkflowStartsOrdered(t *testing.T) {
	f := newWorkflowFixture(WorkflowConfig{RequiresApproval: false})
	pr := f.createApproved(t)
	assert.Equal(t, procurement.PRStatusOrdered, pr.Status)
}

func TestWorkflowService_CreatePR_Validation(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	required := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input CreatePRInput
		code  string
	}{
		{
			name:  "unknown priority",
			input: CreatePRInput{StoreID: 1, RequesterID: 7, Priority: "asap", RequiredDate: required, Items: []CreatePRLine{{MasterItemID: 1, Quantity: 1}}},
			code:  "INVALID_PRIORITY",
		},
		{
			name:  "no items",
			input: CreatePRInput{StoreID: 1, RequesterID: 7, RequiredDate: required},
			code:  "INVALID_INPUT",
		},
		{
			name:  "zero quantity",
			input: CreatePRInput{StoreID: 1, RequesterID: 7, RequiredDate: required, Items: []CreatePRLine{{MasterItemID: 1, Quantity: 0}}},
			code:  "INVALID_QUANTITY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreatePR(ctx, tt.input)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
	assert.Empty(t, f.store.prs)
}

func TestWorkflowService_ApproveThenReject(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	pr := f.createApproved(t)

	ok, err := f.service.RejectPR(ctx, pr.ID, 11, "Budget frozen")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryPRRepo{f.store}.FindByID(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.PRStatusRejected, stored.Status)
	assert.Equal(t, "Budget frozen", stored.Notes)
	assert.Equal(t, int64(11), *stored.ApprovedBy)

	_, err = f.service.ApprovePR(ctx, pr.ID, 9, nil)
	assert.True(t, shared.IsInvalidState(err))
}

func TestWorkflowService_RejectPR_RequiresReason(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	pr := f.createApproved(t)

	_, err := f.service.RejectPR(context.Background(), pr.ID, 9, "   ")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REASON", domainErr.Code)
}

func TestWorkflowService_ApprovePR_NotFound(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	_, err := f.service.ApprovePR(context.Background(), 404, 9, nil)
	assert.True(t, shared.IsNotFound(err))
}

func TestWorkflowService_ReceiveGoods_PartialThenFull(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	pr := f.createApproved(t)
	flour, sugar := pr.Items[0], pr.Items[1]

	result, err := f.service.ReceiveGoods(ctx, pr.ID, ReceiveGoodsInput{
		PONumber:     "PO-1001",
		SupplierName: "Acme Mills",
		Items:        []ReceiveLineRequest{{PRItemID: flour.ID, Quantity: 6, UnitCost: cost("2.40")}},
	})
	require.NoError(t, err)
	assert.Equal(t, procurement.PRStatusPartiallyReceived, result.Status)
	require.Len(t, result.ReceiveRecords, 1)
	assert.Equal(t, "Flour", result.ReceiveRecords[0].ItemName)
	assert.True(t, decimal.RequireFromString("14.40").Equal(result.ReceiveRecords[0].TotalCost))
	assert.Equal(t, 6, f.stockOf(1))

	result, err = f.service.ReceiveGoods(ctx, pr.ID, ReceiveGoodsInput{
		PONumber:     "PO-1001",
		SupplierName: "Acme Mills",
		Items: []ReceiveLineRequest{
			{PRItemID: flour.ID, Quantity: 4},
			{PRItemID: sugar.ID, Quantity: 4, UnitCost: cost("0")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, procurement.PRStatusFullyReceived, result.Status)
	assert.Equal(t, 10, f.stockOf(1))
	assert.Equal(t, 4, f.stockOf(2))

	// zero and missing costs fall back to the estimate
	assert.True(t, decimal.RequireFromString("2.50").Equal(result.ReceiveRecords[0].UnitCost))
	assert.True(t, decimal.RequireFromString("1.25").Equal(result.ReceiveRecords[1].UnitCost))

	assert.Len(t, f.store.lots, 3)
	assert.Len(t, f.store.txns, 3)
	assert.Len(t, f.store.orders, 1)
	assert.Contains(t, f.publisher.types(), procurement.EventTypeGoodsReceived)

	_, err = f.service.ReceiveGoods(ctx, pr.ID, ReceiveGoodsInput{
		PONumber:     "PO-1001",
		SupplierName: "Acme Mills",
		Items:        []ReceiveLineRequest{{PRItemID: flour.ID, Quantity: 1}},
	})
	assert.True(t, shared.IsInvalidState(err))
}

func TestWorkflowService_ReceiveGoods_RequiresPONumber(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	pr := f.createApproved(t)

	_, err := f.service.ReceiveGoods(context.Background(), pr.ID, ReceiveGoodsInput{
		SupplierName: "Acme Mills",
		Items:        []ReceiveLineRequest{{PRItemID: pr.Items[0].ID, Quantity: 2}},
	})
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, 0, f.stockOf(1))
	assert.Empty(t, f.store.orders)
}

func TestWorkflowService_ReceiveGoods_ReusesPurchaseOrder(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	pr := f.createApproved(t)
	first := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)

	for _, day := range []time.Time{first, second} {
		d := day
		_, err := f.service.ReceiveGoods(ctx, pr.ID, ReceiveGoodsInput{
			PONumber:     "PO-2002",
			SupplierName: "Acme Mills",
			ReceivedDate: &d,
			Items:        []ReceiveLineRequest{{PRItemID: pr.Items[0].ID, Quantity: 2}},
		})
		require.NoError(t, err)
	}

	orders, err := f.service.ListPurchaseOrders(ctx, pr.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "PO-2002", orders[0].PONumber)
	require.NotNil(t, orders[0].ActualDeliveryDate)
	assert.Equal(t, "2024-03-18", *orders[0].ActualDeliveryDate)
}

func TestWorkflowService_ReceiveGoods_SkipsUnknownLines(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	pr := f.createApproved(t)

	result, err := f.service.ReceiveGoods(context.Background(), pr.ID, ReceiveGoodsInput{
		PONumber:     "PO-3003",
		SupplierName: "Acme Mills",
		Items: []ReceiveLineRequest{
			{PRItemID: 9999, Quantity: 5},
			{PRItemID: pr.Items[1].ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{9999}, result.SkippedItemIDs)
	assert.Len(t, result.ReceiveRecords, 1)
	assert.Equal(t, procurement.PRStatusPartiallyReceived, result.Status)
}

func TestWorkflowService_ReceiveGoods_RejectsExcessQuantity(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	pr := f.createApproved(t)

	_, err := f.service.ReceiveGoods(context.Background(), pr.ID, ReceiveGoodsInput{
		PONumber:     "PO-4004",
		SupplierName: "Acme Mills",
		Items:        []ReceiveLineRequest{{PRItemID: pr.Items[1].ID, Quantity: 5}},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUANTITY_EXCEEDED", domainErr.Code)
}

func TestWorkflowService_ReceiveGoods_NotReceivable(t *testing.T) {
	ctx := context.Background()

	t.Run("pending", func(t *testing.T) {
		f := newWorkflowFixture(DefaultWorkflowConfig())
		created, err := f.service.CreatePR(ctx, CreatePRInput{
			StoreID:      1,
			RequesterID:  7,
			RequiredDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			Items:        []CreatePRLine{{MasterItemID: 1, Quantity: 3}},
		})
		require.NoError(t, err)
		pr, _ := memoryPRRepo{f.store}.FindByID(ctx, created.ID)

		_, err = f.service.ReceiveGoods(ctx, pr.ID, ReceiveGoodsInput{
			PONumber:     "PO-1",
			SupplierName: "Acme Mills",
			Items:        []ReceiveLineRequest{{PRItemID: pr.Items[0].ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PR must be approved before receiving")
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newWorkflowFixture(DefaultWorkflowConfig())
		pr := f.createApproved(t)
		_, err := f.service.CancelPR(ctx, pr.ID, 7, "No longer needed")
		require.NoError(t, err)

		_, err = f.service.ReceiveGoods(ctx, pr.ID, ReceiveGoodsInput{
			PONumber:     "PO-1",
			SupplierName: "Acme Mills",
			Items:        []ReceiveLineRequest{{PRItemID: pr.Items[0].ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot receive for cancelled PR")
	})
}

func TestWorkflowService_ReceiveGoods_DirectWorkflow(t *testing.T) {
	f := newWorkflowFixture(WorkflowConfig{RequiresApproval: false, RequiresPurchaseOrder: false})
	pr := f.createApproved(t)

	result, err := f.service.ReceiveGoods(context.Background(), pr.ID, ReceiveGoodsInput{
		Items: []ReceiveLineRequest{{PRItemID: pr.Items[0].ID, Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, procurement.PRStatusPartiallyReceived, result.Status)
	assert.Empty(t, f.store.orders)
	require.Len(t, f.store.txns, 1)
	assert.Nil(t, f.store.lots[0].POID)
}

func TestWorkflowService_ListPRsByStore(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	f.createApproved(t)
	f.createApproved(t)

	all, err := f.service.ListPRsByStore(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.service.ListPRsByStore(ctx, 1, "pending")
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.service.ListPRsByStore(ctx, 1, "shipped")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestWorkflowService_ExportForPurchasing(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	pr := f.createApproved(t)

	first, err := f.service.ExportForPurchasing(ctx, pr.ID)
	require.NoError(t, err)
	second, err := f.service.ExportForPurchasing(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, DocumentTypePurchaseRequisition, first.DocumentType)
	assert.Equal(t, pr.PRNumber, first.Header.PRNumber)
	require.Len(t, first.Items, 2)
	assert.Equal(t, 1, first.Items[0].No)
	assert.Equal(t, "SKU-FLOUR", first.Items[0].SKU)
	assert.Equal(t, 14, first.Summary.TotalQuantity)
	assert.True(t, decimal.RequireFromString("30").Equal(first.Summary.TotalEstimatedAmount))
	require.NotNil(t, first.PurchasingSection)
	assert.Len(t, first.PurchasingSection.ActualPrices, 2)

	sheet, err := f.service.ExportToExcel(ctx, pr.ID)
	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 2)
	again, err := f.service.ExportToExcel(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, sheet, again)
}

func TestWorkflowService_ExportPRList(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()

	created := func(storeID int64, at time.Time) int64 {
		res, err := f.service.CreatePR(ctx, CreatePRInput{
			StoreID:      storeID,
			RequesterID:  7,
			RequiredDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Items: []CreatePRLine{
				{MasterItemID: 1, Quantity: 10, EstimatedUnitCost: cost("2.50")},
				{MasterItemID: 2, Quantity: 4, EstimatedUnitCost: cost("1.25")},
			},
		})
		require.NoError(t, err)
		f.store.prs[res.ID].CreatedAt = at
		return res.ID
	}
	created(1, time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC))
	first := created(1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	last := created(1, time.Date(2026, 3, 31, 23, 30, 0, 0, time.UTC))
	created(1, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	created(2, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	rows, err := f.service.ExportPRList(ctx, 1,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, f.store.prs[last].PRNumber, rows[0].PRNumber)
	assert.Equal(t, f.store.prs[first].PRNumber, rows[1].PRNumber)
	assert.Equal(t, 2, rows[0].ItemCount)
	assert.True(t, decimal.RequireFromString("30").Equal(rows[0].TotalAmount), rows[0].TotalAmount.String())

	_, err = f.service.ExportPRList(ctx, 1,
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

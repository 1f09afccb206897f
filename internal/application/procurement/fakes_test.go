package procurement

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
)

// memoryStore backs every repository of the workflow tests
type memoryStore struct {
	mu sync.Mutex

	prs         map[int64]*procurement.PurchaseRequisition
	orders      map[int64]*procurement.PurchaseOrder
	storeItems  map[int64]*inventory.StoreItem
	lots        []inventory.InventoryLot
	txns        []inventory.StockTransaction
	masterItems map[int64]catalog.MasterItem
	nextID      int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		prs:         make(map[int64]*procurement.PurchaseRequisition),
		orders:      make(map[int64]*procurement.PurchaseOrder),
		storeItems:  make(map[int64]*inventory.StoreItem),
		masterItems: make(map[int64]catalog.MasterItem),
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) addMasterItem(id int64, sku, name string) {
	item, _ := catalog.NewMasterItem(sku, name, "general", "")
	item.ID = id
	m.masterItems[id] = *item
}

func clonePR(pr *procurement.PurchaseRequisition) *procurement.PurchaseRequisition {
	c := *pr
	c.Items = append([]procurement.PRItem(nil), pr.Items...)
	c.ClearDomainEvents()
	return &c
}

func (m *memoryStore) storeItemFor(storeID, masterItemID int64) *inventory.StoreItem {
	for _, item := range m.storeItems {
		if item.StoreID == storeID && item.MasterItemID == masterItemID {
			return item
		}
	}
	return nil
}

type memoryPRRepo struct{ *memoryStore }

func (r memoryPRRepo) Create(_ context.Context, pr *procurement.PurchaseRequisition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr.ID = r.id()
	for i := range pr.Items {
		pr.Items[i].ID = r.id()
		pr.Items[i].PRID = pr.ID
	}
	r.prs[pr.ID] = clonePR(pr)
	return nil
}

func (r memoryPRRepo) FindByID(_ context.Context, id int64) (*procurement.PurchaseRequisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.prs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return clonePR(pr), nil
}

func (r memoryPRRepo) FindForUpdate(ctx context.Context, id int64) (*procurement.PurchaseRequisition, error) {
	return r.FindByID(ctx, id)
}

func (r memoryPRRepo) Save(_ context.Context, pr *procurement.PurchaseRequisition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prs[pr.ID]; !ok {
		return shared.ErrNotFound
	}
	r.prs[pr.ID] = clonePR(pr)
	return nil
}

func (r memoryPRRepo) GetDetail(_ context.Context, id int64) (*procurement.PRDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.prs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	detail := &procurement.PRDetail{
		PR:             *clonePR(pr),
		StoreName:      "Main Store",
		DepartmentName: "Kitchen",
		RequesterName:  "Requester",
	}
	if pr.ApprovedBy != nil {
		detail.ApproverName = "Manager"
	}
	for _, item := range pr.Items {
		master := r.masterItems[item.MasterItemID]
		detail.Items = append(detail.Items, procurement.PRItemDetail{
			PRItem:   item,
			SKU:      master.SKU,
			ItemName: master.Name,
			Unit:     master.Unit,
		})
	}
	return detail, nil
}

func (r memoryPRRepo) ListByStore(_ context.Context, storeID int64, filter procurement.ListFilter) ([]procurement.PRSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []procurement.PRSummary
	for _, pr := range r.prs {
		if pr.StoreID != storeID || (filter.Status != nil && pr.Status != *filter.Status) {
			continue
		}
		if filter.CreatedFrom != nil && pr.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedBefore != nil && !pr.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		out = append(out, procurement.PRSummary{
			ID:             pr.ID,
			PRNumber:       pr.PRNumber,
			StoreID:        pr.StoreID,
			RequesterID:    pr.RequesterID,
			Status:         pr.Status,
			Priority:       pr.Priority,
			RequiredDate:   pr.RequiredDate,
			ItemCount:      len(pr.Items),
			EstimatedTotal: pr.EstimatedTotal(),
			CreatedAt:      pr.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memoryPRRepo) ListPendingApprovals(_ context.Context, storeID *int64) ([]procurement.PendingApprovalRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []procurement.PendingApprovalRow
	for _, pr := range r.prs {
		if pr.Status != procurement.PRStatusPending || (storeID != nil && pr.StoreID != *storeID) {
			continue
		}
		out = append(out, procurement.PendingApprovalRow{
			ID:           pr.ID,
			PRNumber:     pr.PRNumber,
			StoreID:      pr.StoreID,
			RequesterID:  pr.RequesterID,
			Priority:     pr.Priority,
			RequiredDate: pr.RequiredDate,
			ItemCount:    len(pr.Items),
			CreatedAt:    pr.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryPRRepo) receivable(storeID *int64, keep func(time.Time) bool) []procurement.DeliveryRow {
	var out []procurement.DeliveryRow
	for _, pr := range r.prs {
		if !pr.Status.IsReceivable() || (storeID != nil && pr.StoreID != *storeID) || !keep(pr.RequiredDate) {
			continue
		}
		out = append(out, procurement.DeliveryRow{
			ID:           pr.ID,
			PRNumber:     pr.PRNumber,
			StoreID:      pr.StoreID,
			RequesterID:  pr.RequesterID,
			Status:       pr.Status,
			Priority:     pr.Priority,
			RequiredDate: pr.RequiredDate,
			ItemCount:    len(pr.Items),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequiredDate.Before(out[j].RequiredDate) })
	return out
}

func (r memoryPRRepo) ListReceivableDueBy(_ context.Context, storeID *int64, until time.Time) ([]procurement.DeliveryRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.receivable(storeID, func(d time.Time) bool { return !d.After(until) }), nil
}

func (r memoryPRRepo) ListReceivableOverdue(_ context.Context, storeID *int64, today time.Time) ([]procurement.DeliveryRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.receivable(storeID, func(d time.Time) bool { return d.Before(today) }), nil
}

func (r memoryPRRepo) ExistsByPRNumber(_ context.Context, prNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pr := range r.prs {
		if pr.PRNumber == prNumber {
			return true, nil
		}
	}
	return false, nil
}

type memoryPORepo struct{ *memoryStore }

func (r memoryPORepo) FindByNumberAndPR(_ context.Context, poNumber string, prID int64) (*procurement.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, po := range r.orders {
		if po.PONumber == poNumber && po.PRID == prID {
			c := *po
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memoryPORepo) Save(_ context.Context, po *procurement.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if po.ID == 0 {
		po.ID = r.id()
	}
	c := *po
	r.orders[po.ID] = &c
	return nil
}

func (r memoryPORepo) ListByPR(_ context.Context, prID int64) ([]procurement.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []procurement.PurchaseOrder
	for _, po := range r.orders {
		if po.PRID == prID {
			out = append(out, *po)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memoryStoreItemRepo struct{ *memoryStore }

func (r memoryStoreItemRepo) FindByID(_ context.Context, id int64) (*inventory.StoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.storeItems[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r memoryStoreItemRepo) FindByStoreAndMasterItem(_ context.Context, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.storeItemFor(storeID, masterItemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r memoryStoreItemRepo) GetOrCreate(_ context.Context, storeID, masterItemID int64) (*inventory.StoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.storeItemFor(storeID, masterItemID)
	if item == nil {
		created, err := inventory.NewStoreItem(storeID, masterItemID)
		if err != nil {
			return nil, err
		}
		created.ID = r.id()
		r.storeItems[created.ID] = created
		item = created
	}
	c := *item
	return &c, nil
}

func (r memoryStoreItemRepo) FindByStore(_ context.Context, storeID int64) ([]inventory.StoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StoreItem
	for _, item := range r.storeItems {
		if item.StoreID == storeID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r memoryStoreItemRepo) FindBelowReorderPoint(_ context.Context, storeID *int64) ([]inventory.StoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StoreItem
	for _, item := range r.storeItems {
		if item.IsBelowReorderPoint() && (storeID == nil || item.StoreID == *storeID) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r memoryStoreItemRepo) Save(_ context.Context, item *inventory.StoreItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *item
	r.storeItems[item.ID] = &c
	return nil
}

type memoryLotRepo struct{ *memoryStore }

func (r memoryLotRepo) Create(_ context.Context, lot *inventory.InventoryLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot.ID = r.id()
	r.lots = append(r.lots, *lot)
	return nil
}

func (r memoryLotRepo) FindByStoreItem(_ context.Context, storeItemID int64) ([]inventory.InventoryLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InventoryLot
	for _, lot := range r.lots {
		if lot.StoreItemID == storeItemID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r memoryLotRepo) FindByPR(_ context.Context, prID int64) ([]inventory.InventoryLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InventoryLot
	for _, lot := range r.lots {
		if lot.PRID != nil && *lot.PRID == prID {
			out = append(out, lot)
		}
	}
	return out, nil
}

type memoryTxnRepo struct{ *memoryStore }

func (r memoryTxnRepo) Create(_ context.Context, txn *inventory.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn.ID = r.id()
	r.txns = append(r.txns, *txn)
	return nil
}

func (r memoryTxnRepo) FindByStoreItem(_ context.Context, storeItemID int64, limit int) ([]inventory.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StockTransaction
	for i := len(r.txns) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.txns[i].StoreItemID == storeItemID {
			out = append(out, r.txns[i])
		}
	}
	return out, nil
}

func (r memoryTxnRepo) SumSignedQuantity(_ context.Context, storeItemID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, txn := range r.txns {
		if txn.StoreItemID == storeItemID {
			sum += txn.SignedQuantity()
		}
	}
	return sum, nil
}

type memoryMasterItemRepo struct{ *memoryStore }

func (r memoryMasterItemRepo) FindByID(_ context.Context, id int64) (*catalog.MasterItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.masterItems[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r memoryMasterItemRepo) FindByIDs(_ context.Context, ids []int64) ([]catalog.MasterItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.MasterItem
	for _, id := range ids {
		if item, ok := r.masterItems[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r memoryMasterItemRepo) FindBySKU(_ context.Context, sku string) (*catalog.MasterItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.masterItems {
		if item.SKU == sku {
			return &item, nil
		}
	}
	return nil, shared.ErrNotFound
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
)

// StockQueries reads store stock and its ledger
type StockQueries interface {
	ListStoreStock(ctx context.Context, storeID int64) ([]inventoryapp.StoreItemResponse, error)
	GetStoreItem(ctx context.Context, storeItemID int64) (*inventoryapp.StoreItemResponse, error)
	ListLots(ctx context.Context, storeItemID int64) ([]inventoryapp.LotResponse, error)
	ListTransactions(ctx context.Context, storeItemID int64, limit int) ([]inventoryapp.TransactionResponse, error)
	VerifyBalance(ctx context.Context, storeItemID int64) (*inventoryapp.BalanceReport, error)
	SetReorderPolicy(ctx context.Context, storeItemID int64, in inventoryapp.ReorderPolicyInput) (*inventoryapp.StoreItemResponse, error)
}

// ReorderPolicyRequest is the body of PUT /inventory/store-items/:id/reorder-policy
type ReorderPolicyRequest struct {
	MinQuantity     int `json:"min_quantity" binding:"min=0"`
	ReorderPoint    int `json:"reorder_point" binding:"min=0"`
	ReorderQuantity int `json:"reorder_quantity" binding:"min=0"`
	SafetyStock     int `json:"safety_stock" binding:"min=0"`
	LeadTimeDays    int `json:"lead_time_days" binding:"min=0"`
}

// InventoryHandler handles store stock endpoints
type InventoryHandler struct {
	BaseHandler
	stock StockQueries
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stock StockQueries) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

// ListStoreItems lists the stock of a store
// @ID           listStoreItems
// @Summary      List the stock of a store
// @Tags         inventory
// @Produce      json
// @Param        store_id query int false "Store, required for admins"
// @Success      200 {object} APIResponse[[]inventoryapp.StoreItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/store-items [get]
func (h *InventoryHandler) ListStoreItems(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	storeID, ok := h.storeScope(c, claims)
	if !ok {
		return
	}
	if storeID == nil {
		h.BadRequest(c, "store_id is required")
		return
	}
	items, err := h.stock.ListStoreStock(c.Request.Context(), *storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetStoreItem returns one store item
// @ID           getStoreItem
// @Summary      Get a store item
// @Tags         inventory
// @Produce      json
// @Param        id path int true "Store item ID"
// @Success      200 {object} APIResponse[inventoryapp.StoreItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/store-items/{id} [get]
func (h *InventoryHandler) GetStoreItem(c *gin.Context) {
	item, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	h.Success(c, item)
}

// ListLots lists the lots of a store item
// @ID           listStoreItemLots
// @Summary      List the lots of a store item
// @Tags         inventory
// @Produce      json
// @Param        id path int true "Store item ID"
// @Success      200 {object} APIResponse[[]inventoryapp.LotResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/store-items/{id}/lots [get]
func (h *InventoryHandler) ListLots(c *gin.Context) {
	item, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	lots, err := h.stock.ListLots(c.Request.Context(), item.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// ListTransactions lists recent stock movements of a store item, newest first
// @ID           listStoreItemTransactions
// @Summary      List recent stock movements of a store item
// @Tags         inventory
// @Produce      json
// @Param        id path int true "Store item ID"
// @Param        limit query int false "At most 100"
// @Success      200 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/store-items/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	item, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	limit, ok := h.queryInt(c, "limit", 0)
	if !ok {
		return
	}
	txns, err := h.stock.ListTransactions(c.Request.Context(), item.ID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txns)
}

// VerifyBalance compares the on-hand quantity with the transaction ledger
// @ID           verifyStoreItemBalance
// @Summary      Compare on-hand quantity with the transaction ledger
// @Tags         inventory
// @Produce      json
// @Param        id path int true "Store item ID"
// @Success      200 {object} APIResponse[inventoryapp.BalanceReport]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/store-items/{id}/balance [get]
func (h *InventoryHandler) VerifyBalance(c *gin.Context) {
	item, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	report, err := h.stock.VerifyBalance(c.Request.Context(), item.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// SetReorderPolicy replaces the replenishment thresholds. Managers and admins only.
// @ID           setStoreItemReorderPolicy
// @Summary      Replace the reorder thresholds of a store item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path int true "Store item ID"
// @Param        request body ReorderPolicyRequest true "Thresholds"
// @Success      200 {object} APIResponse[inventoryapp.StoreItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/store-items/{id}/reorder-policy [put]
func (h *InventoryHandler) SetReorderPolicy(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	if !claims.Role.CanApprove() {
		h.Forbidden(c, "Only managers can change reorder policies")
		return
	}
	item, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	var req ReorderPolicyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.stock.SetReorderPolicy(c.Request.Context(), item.ID, inventoryapp.ReorderPolicyInput{
		MinQuantity:     req.MinQuantity,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		SafetyStock:     req.SafetyStock,
		LeadTimeDays:    req.LeadTimeDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

func (h *InventoryHandler) loadAuthorized(c *gin.Context) (*inventoryapp.StoreItemResponse, bool) {
	claims, ok := h.claims(c)
	if !ok {
		return nil, false
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return nil, false
	}
	item, err := h.stock.GetStoreItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if !h.authorizeStore(c, claims, item.StoreID) {
		return nil, false
	}
	return item, true
}

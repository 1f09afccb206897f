package handler

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	procurementapp "github.com/wms/backend/internal/application/procurement"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// PRWorkflow is the purchase requisition workflow the handler drives
type PRWorkflow interface {
	CreatePR(ctx context.Context, in procurementapp.CreatePRInput) (*procurementapp.CreatePRResult, error)
	ApprovePR(ctx context.Context, prID, approverID int64, notes *string) (bool, error)
	RejectPR(ctx context.Context, prID, approverID int64, reason string) (bool, error)
	CancelPR(ctx context.Context, prID, userID int64, reason string) (bool, error)
	ReceiveGoods(ctx context.Context, prID int64, in procurementapp.ReceiveGoodsInput) (*procurementapp.ReceiveGoodsResult, error)
	GetPR(ctx context.Context, prID int64) (*procurementapp.PRResponse, error)
	ListPRsByStore(ctx context.Context, storeID int64, status string) ([]procurementapp.PRListItemResponse, error)
	ExportPRList(ctx context.Context, storeID int64, from, to time.Time) ([]procurementapp.PRExportRow, error)
	ListPurchaseOrders(ctx context.Context, prID int64) ([]procurementapp.PurchaseOrderResponse, error)
	ExportForPurchasing(ctx context.Context, prID int64) (*procurementapp.PurchasingDocument, error)
	ExportToExcel(ctx context.Context, prID int64) (*procurementapp.Spreadsheet, error)
}

// ExportArchive stores purchasing documents in object storage
type ExportArchive interface {
	ArchiveExport(ctx context.Context, prID int64) (*procurementapp.ArchiveResult, error)
}

// ProcurementHandler handles purchase requisition endpoints
type ProcurementHandler struct {
	BaseHandler
	workflow PRWorkflow
	archiver ExportArchive
}

// NewProcurementHandler creates a new ProcurementHandler. archiver may be nil
// when object storage is not configured.
func NewProcurementHandler(workflow PRWorkflow, archiver ExportArchive) *ProcurementHandler {
	return &ProcurementHandler{workflow: workflow, archiver: archiver}
}

// CreatePRRequest is the body of POST /prs
type CreatePRRequest struct {
	// StoreID is only honoured for admins; everybody else files for their own store
	StoreID      *int64              `json:"store_id"`
	Priority     string              `json:"priority"`
	RequiredDate string              `json:"required_date" binding:"required"`
	Notes        string              `json:"notes" binding:"max=2000"`
	Items        []CreatePRItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreatePRItemInput is one requested line
type CreatePRItemInput struct {
	MasterItemID      int64            `json:"master_item_id" binding:"required"`
	Quantity          int              `json:"quantity"`
	EstimatedUnitCost *decimal.Decimal `json:"estimated_unit_cost"`
	Notes             string           `json:"notes" binding:"max=500"`
}

// ApprovePRRequest is the optional body of POST /prs/:id/approve
type ApprovePRRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

// ReasonRequest carries a rejection or cancellation reason
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// ReceiveGoodsRequest is the body of POST /prs/:id/receive
type ReceiveGoodsRequest struct {
	PONumber        string               `json:"po_number" binding:"max=50"`
	SupplierName    string               `json:"supplier_name" binding:"max=200"`
	SupplierContact string               `json:"supplier_contact" binding:"max=200"`
	ReceivedDate    string               `json:"received_date"`
	InvoiceNumber   string               `json:"invoice_number" binding:"max=100"`
	Items           []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes           string               `json:"notes" binding:"max=2000"`
}

// ReceiveItemRequest is one delivered line. Clients may send the amount as
// quantity or received_quantity; quantity wins when both are set.
type ReceiveItemRequest struct {
	PRItemID         int64            `json:"pr_item_id" binding:"required"`
	Quantity         int              `json:"quantity"`
	ReceivedQuantity *int             `json:"received_quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	ExpiryDate       string           `json:"expiry_date"`
}

// DeliveredQuantity returns the amount delivered on this line
func (r ReceiveItemRequest) DeliveredQuantity() int {
	if r.Quantity == 0 && r.ReceivedQuantity != nil {
		return *r.ReceivedQuantity
	}
	return r.Quantity
}

// List returns the PRs of a store, optionally filtered by ?status=
// @ID           listPRs
// @Summary      List a store's purchase requisitions
// @Tags         procurement
// @Produce      json
// @Param        store_id query int false "Store, required for admins"
// @Param        status query string false "Status filter" Enums(pending, approved, rejected, ordered, partially_received, fully_received, cancelled)
// @Success      200 {object} APIResponse[[]procurementapp.PRListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs [get]
func (h *ProcurementHandler) List(c *gin.Context) {
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

	prs, err := h.workflow.ListPRsByStore(c.Request.Context(), *storeID, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prs)
}

// ExportList lists the PRs a store created between ?from= and ?to=
// (YYYY-MM-DD, both days inclusive), newest first
// @ID           exportPRList
// @Summary      Export a store's PRs created in a date range
// @Tags         procurement
// @Produce      json
// @Param        store_id query int false "Store, required for admins"
// @Param        from query string true "First day, YYYY-MM-DD"
// @Param        to query string true "Last day, YYYY-MM-DD"
// @Success      200 {object} APIResponse[[]procurementapp.PRExportRow]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/export [get]
func (h *ProcurementHandler) ExportList(c *gin.Context) {
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
	from, errFrom := time.Parse(time.DateOnly, c.Query("from"))
	to, errTo := time.Parse(time.DateOnly, c.Query("to"))
	if errFrom != nil || errTo != nil {
		h.BadRequest(c, "from and to must be YYYY-MM-DD")
		return
	}

	rows, err := h.workflow.ExportPRList(c.Request.Context(), *storeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Create files a new PR for the caller's store
// @ID           createPR
// @Summary      Create a purchase requisition
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        request body CreatePRRequest true "PR to file"
// @Success      201 {object} APIResponse[procurementapp.CreatePRResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs [post]
func (h *ProcurementHandler) Create(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	var req CreatePRRequest
	if !h.BindJSON(c, &req) {
		return
	}

	storeID, ok := h.requestStore(c, claims, req.StoreID)
	if !ok {
		return
	}
	requiredDate, err := time.Parse(time.DateOnly, req.RequiredDate)
	if err != nil {
		h.BadRequest(c, "required_date must be YYYY-MM-DD")
		return
	}

	in := procurementapp.CreatePRInput{
		StoreID:      storeID,
		RequesterID:  claims.UserID,
		Priority:     req.Priority,
		RequiredDate: requiredDate,
		Notes:        req.Notes,
		Items:        make([]procurementapp.CreatePRLine, len(req.Items)),
	}
	for i, item := range req.Items {
		in.Items[i] = procurementapp.CreatePRLine{
			MasterItemID:      item.MasterItemID,
			Quantity:          item.Quantity,
			EstimatedUnitCost: item.EstimatedUnitCost,
			Notes:             item.Notes,
		}
	}

	result, err := h.workflow.CreatePR(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a PR with its lines and purchase orders
// @ID           getPR
// @Summary      Get a purchase requisition
// @Tags         procurement
// @Produce      json
// @Param        id path int true "PR ID"
// @Success      200 {object} APIResponse[procurementapp.PRResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id} [get]
func (h *ProcurementHandler) Get(c *gin.Context) {
	_, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	h.Success(c, pr)
}

// Approve approves a pending PR. Managers and admins only.
// @ID           approvePR
// @Summary      Approve a pending purchase requisition
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path int true "PR ID"
// @Param        request body ApprovePRRequest false "Approval notes"
// @Success      200 {object} APIResponse[dto.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/approve [post]
func (h *ProcurementHandler) Approve(c *gin.Context) {
	claims, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if !claims.Role.CanApprove() {
		h.Forbidden(c, "Only managers can approve purchase requisitions")
		return
	}

	var req ApprovePRRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	done, err := h.workflow.ApprovePR(c.Request.Context(), pr.ID, claims.UserID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actionResponse(pr.ID, done))
}

// Reject rejects a PR with a reason. Managers and admins only.
// @ID           rejectPR
// @Summary      Reject a pending purchase requisition
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path int true "PR ID"
// @Param        request body ReasonRequest true "Rejection reason"
// @Success      200 {object} APIResponse[dto.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/reject [post]
func (h *ProcurementHandler) Reject(c *gin.Context) {
	claims, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if !claims.Role.CanApprove() {
		h.Forbidden(c, "Only managers can reject purchase requisitions")
		return
	}

	var req ReasonRequest
	if !h.BindJSON(c, &req) {
		return
	}

	done, err := h.workflow.RejectPR(c.Request.Context(), pr.ID, claims.UserID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actionResponse(pr.ID, done))
}

// Cancel withdraws a PR. The requester or a manager may cancel.
// @ID           cancelPR
// @Summary      Cancel a purchase requisition
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path int true "PR ID"
// @Param        request body ReasonRequest false "Cancellation reason"
// @Success      200 {object} APIResponse[dto.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/cancel [post]
func (h *ProcurementHandler) Cancel(c *gin.Context) {
	claims, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if pr.RequesterID != claims.UserID && !claims.Role.CanApprove() {
		h.Forbidden(c, "Only the requester or a manager can cancel this purchase requisition")
		return
	}

	var req ReasonRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	done, err := h.workflow.CancelPR(c.Request.Context(), pr.ID, claims.UserID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actionResponse(pr.ID, done))
}

// Receive records a delivery against a PR
// @ID           receivePRGoods
// @Summary      Receive goods against a purchase requisition
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path int true "PR ID"
// @Param        Idempotency-Key header string false "Replays return the first response"
// @Param        request body ReceiveGoodsRequest true "Delivered lines"
// @Success      200 {object} APIResponse[procurementapp.ReceiveGoodsResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/receive [post]
func (h *ProcurementHandler) Receive(c *gin.Context) {
	claims, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	var req ReceiveGoodsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID := claims.UserID
	in := procurementapp.ReceiveGoodsInput{
		PONumber:        req.PONumber,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		InvoiceNumber:   req.InvoiceNumber,
		Items:           make([]procurementapp.ReceiveLineRequest, len(req.Items)),
		UserID:          &userID,
		Notes:           req.Notes,
	}
	if req.ReceivedDate != "" {
		d, err := parseDate(req.ReceivedDate)
		if err != nil {
			h.BadRequest(c, "received_date must be YYYY-MM-DD or RFC 3339")
			return
		}
		in.ReceivedDate = &d
	}
	for i, item := range req.Items {
		line := procurementapp.ReceiveLineRequest{
			PRItemID: item.PRItemID,
			Quantity: item.DeliveredQuantity(),
			UnitCost: item.UnitCost,
		}
		if item.ExpiryDate != "" {
			d, err := parseDate(item.ExpiryDate)
			if err != nil {
				h.BadRequest(c, "expiry_date must be YYYY-MM-DD or RFC 3339")
				return
			}
			line.ExpiryDate = &d
		}
		in.Items[i] = line
	}

	result, err := h.workflow.ReceiveGoods(c.Request.Context(), pr.ID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export renders the purchasing document. ?format= is json (default),
// spreadsheet or csv.
// @ID           exportPR
// @Summary      Export the purchasing document
// @Tags         procurement
// @Produce      json,text/csv
// @Param        id path int true "PR ID"
// @Param        format query string false "Output format" Enums(json, spreadsheet, csv)
// @Success      200 {object} APIResponse[procurementapp.PurchasingDocument]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/export [get]
func (h *ProcurementHandler) Export(c *gin.Context) {
	_, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		doc, err := h.workflow.ExportForPurchasing(ctx, pr.ID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, doc)
	case "spreadsheet", "csv":
		sheet, err := h.workflow.ExportToExcel(ctx, pr.ID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if format == "spreadsheet" {
			h.Success(c, sheet)
			return
		}
		writeCSV(c, sheet)
	default:
		h.BadRequest(c, "format must be one of: json spreadsheet csv")
	}
}

// Archive stores the purchasing document in object storage and returns a
// download URL
// @ID           archivePRExport
// @Summary      Archive the purchasing document in object storage
// @Tags         procurement
// @Produce      json
// @Param        id path int true "PR ID"
// @Success      200 {object} APIResponse[procurementapp.ArchiveResult]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/export/archive [post]
func (h *ProcurementHandler) Archive(c *gin.Context) {
	if h.archiver == nil {
		h.ServiceUnavailable(c, "Export archiving is not configured")
		return
	}
	_, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	result, err := h.archiver.ArchiveExport(c.Request.Context(), pr.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PurchaseOrders lists the purchase orders recorded against a PR
// @ID           listPRPurchaseOrders
// @Summary      List the purchase orders of a purchase requisition
// @Tags         procurement
// @Produce      json
// @Param        id path int true "PR ID"
// @Success      200 {object} APIResponse[[]procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /prs/{id}/purchase-orders [get]
func (h *ProcurementHandler) PurchaseOrders(c *gin.Context) {
	_, pr, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	orders, err := h.workflow.ListPurchaseOrders(c.Request.Context(), pr.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// loadAuthorized loads the PR named by :id and checks the caller may see its store
func (h *ProcurementHandler) loadAuthorized(c *gin.Context) (*auth.Claims, *procurementapp.PRResponse, bool) {
	claims, ok := h.claims(c)
	if !ok {
		return nil, nil, false
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return nil, nil, false
	}
	pr, err := h.workflow.GetPR(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, nil, false
	}
	if !h.authorizeStore(c, claims, pr.StoreID) {
		return nil, nil, false
	}
	return claims, pr, true
}

// requestStore picks the store a new PR is filed for
func (h *ProcurementHandler) requestStore(c *gin.Context, claims *auth.Claims, requested *int64) (int64, bool) {
	if requested != nil {
		if !h.authorizeStore(c, claims, *requested) {
			return 0, false
		}
		return *requested, true
	}
	if claims.StoreID == nil {
		h.BadRequest(c, "store_id is required")
		return 0, false
	}
	return *claims.StoreID, true
}

func actionResponse(id int64, done bool) dto.ActionResponse {
	return dto.ActionResponse{ID: id, Success: done}
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// writeCSV streams a spreadsheet as CSV: header block, line table, footer block
func writeCSV(c *gin.Context, sheet *procurementapp.Spreadsheet) {
	name := strings.TrimSuffix(sheet.FileName, ".xlsx") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	// the status line is already out, so a failed write can only be logged
	if err := encodeCSV(c.Writer, sheet); err != nil {
		logger.L(c.Request.Context()).Warn("Failed to write CSV export",
			zap.String("file", name),
			zap.Error(err),
		)
	}
}

func encodeCSV(out io.Writer, sheet *procurementapp.Spreadsheet) error {
	w := csv.NewWriter(out)
	blocks := [][][]string{sheet.Header, {nil}, {sheet.Columns}, sheet.Rows, {nil}, sheet.Footer}
	for _, block := range blocks {
		for _, record := range block {
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

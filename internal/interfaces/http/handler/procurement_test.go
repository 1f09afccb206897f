package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	procurementapp "github.com/wms/backend/internal/application/procurement"
	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

func procurementEngine(claims *auth.Claims, wf *MockWorkflow, archiver ExportArchive) http.Handler {
	h := NewProcurementHandler(wf, archiver)
	r := newTestEngine(claims)
	r.GET("/prs", h.List)
	r.POST("/prs", h.Create)
	r.GET("/prs/export", h.ExportList)
	r.GET("/prs/:id", h.Get)
	r.POST("/prs/:id/approve", h.Approve)
	r.POST("/prs/:id/reject", h.Reject)
	r.POST("/prs/:id/cancel", h.Cancel)
	r.POST("/prs/:id/receive", h.Receive)
	r.GET("/prs/:id/export", h.Export)
	r.POST("/prs/:id/export/archive", h.Archive)
	r.GET("/prs/:id/purchase-orders", h.PurchaseOrders)
	return r
}

func storePR(id, storeID, requesterID int64) *procurementapp.PRResponse {
	return &procurementapp.PRResponse{
		ID:          id,
		PRNumber:    "PR20260301-0001",
		StoreID:     storeID,
		RequesterID: requesterID,
		Status:      procurement.PRStatusApproved,
	}
}

func decodeError(t *testing.T, body []byte) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestProcurementHandler_Create(t *testing.T) {
	t.Run("files for the caller's store", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("CreatePR", mock.Anything, mock.MatchedBy(func(in procurementapp.CreatePRInput) bool {
			return in.StoreID == 3 &&
				in.RequesterID == 10 &&
				in.Priority == "high" &&
				in.RequiredDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) &&
				len(in.Items) == 2 &&
				in.Items[0].EstimatedUnitCost.Equal(decimal.RequireFromString("2.50")) &&
				in.Items[1].EstimatedUnitCost == nil
		})).Return(&procurementapp.CreatePRResult{ID: 5, PRNumber: "PR20260301-0001"}, nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs", `{
			"priority": "high",
			"required_date": "2026-03-10",
			"items": [
				{"master_item_id": 1, "quantity": 10, "estimated_unit_cost": "2.50"},
				{"master_item_id": 2, "quantity": 4}
			]
		}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"pr_number":"PR20260301-0001"`)
		wf.AssertExpectations(t)
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), new(MockWorkflow), nil), http.MethodPost, "/prs", `{"items": []}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		info := decodeError(t, w.Body.Bytes())
		assert.Equal(t, dto.ErrCodeValidation, info.Code)

		fields := map[string]bool{}
		for _, d := range info.Details {
			fields[d.Field] = true
		}
		assert.True(t, fields["required_date"])
		assert.True(t, fields["items"])
	})

	t.Run("bad date", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), new(MockWorkflow), nil), http.MethodPost, "/prs",
			`{"required_date": "10/03/2026", "items": [{"master_item_id": 1, "quantity": 1}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), new(MockWorkflow), nil), http.MethodPost, "/prs", `{"items": [`)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("other store is forbidden", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), new(MockWorkflow), nil), http.MethodPost, "/prs",
			`{"store_id": 4, "required_date": "2026-03-10", "items": [{"master_item_id": 1, "quantity": 1}]}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin must name a store", func(t *testing.T) {
		w := do(procurementEngine(admin(), new(MockWorkflow), nil), http.MethodPost, "/prs",
			`{"required_date": "2026-03-10", "items": [{"master_item_id": 1, "quantity": 1}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("domain error code", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("CreatePR", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_PRIORITY", `Unknown priority "asap"`))

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs",
			`{"priority": "asap", "required_date": "2026-03-10", "items": [{"master_item_id": 1, "quantity": 1}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_PRIORITY", decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := do(procurementEngine(nil, new(MockWorkflow), nil), http.MethodPost, "/prs", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProcurementHandler_List(t *testing.T) {
	t.Run("pinned to own store", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("ListPRsByStore", mock.Anything, int64(3), "pending").
			Return([]procurementapp.PRListItemResponse{{ID: 1, StoreID: 3}}, nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs?status=pending", "")
		assert.Equal(t, http.StatusOK, w.Code)
		wf.AssertExpectations(t)
	})

	t.Run("foreign store_id", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), new(MockWorkflow), nil), http.MethodGet, "/prs?store_id=9", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin picks a store", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("ListPRsByStore", mock.Anything, int64(9), "").Return([]procurementapp.PRListItemResponse{}, nil)

		w := do(procurementEngine(admin(), wf, nil), http.MethodGet, "/prs?store_id=9", "")
		assert.Equal(t, http.StatusOK, w.Code)
		wf.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("ListPRsByStore", mock.Anything, int64(3), "bogus").
			Return(nil, shared.NewDomainError("INVALID_STATUS", `Unknown status "bogus"`))

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs?status=bogus", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProcurementHandler_Get(t *testing.T) {
	wf := new(MockWorkflow)
	wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
	wf.On("GetPR", mock.Anything, int64(6)).Return(nil, shared.ErrNotFound)

	assert.Equal(t, http.StatusOK, do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs/5", "").Code)
	assert.Equal(t, http.StatusForbidden, do(procurementEngine(clerk(4), wf, nil), http.MethodGet, "/prs/5", "").Code)
	assert.Equal(t, http.StatusOK, do(procurementEngine(admin(), wf, nil), http.MethodGet, "/prs/5", "").Code)

	w := do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs/6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w.Body.Bytes()).Code)

	assert.Equal(t, http.StatusBadRequest, do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs/abc", "").Code)
}

func TestProcurementHandler_Transitions(t *testing.T) {
	t.Run("approve needs a manager", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/approve", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		wf.AssertNotCalled(t, "ApprovePR", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("approve without body", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("ApprovePR", mock.Anything, int64(5), int64(20), (*string)(nil)).Return(true, nil)

		w := do(procurementEngine(manager(3), wf, nil), http.MethodPost, "/prs/5/approve", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"id":5,"success":true}}`, w.Body.String())
	})

	t.Run("approve with notes", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("ApprovePR", mock.Anything, int64(5), int64(20), mock.MatchedBy(func(n *string) bool {
			return n != nil && *n == "ok"
		})).Return(true, nil)

		w := do(procurementEngine(manager(3), wf, nil), http.MethodPost, "/prs/5/approve", `{"notes": "ok"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		wf.AssertExpectations(t)
	})

	t.Run("approve invalid state is 422", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("ApprovePR", mock.Anything, int64(5), int64(20), (*string)(nil)).
			Return(false, shared.NewDomainError("INVALID_STATE", "Cannot approve a PR in received status"))

		w := do(procurementEngine(manager(3), wf, nil), http.MethodPost, "/prs/5/approve", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("reject passes reason", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("RejectPR", mock.Anything, int64(5), int64(20), "over budget").Return(true, nil)

		w := do(procurementEngine(manager(3), wf, nil), http.MethodPost, "/prs/5/reject", `{"reason": "over budget"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		wf.AssertExpectations(t)
	})

	t.Run("requester may cancel", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("CancelPR", mock.Anything, int64(5), int64(10), "").Return(true, nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/cancel", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other clerk may not cancel", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 99), nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/cancel", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("concurrent update is 409", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("CancelPR", mock.Anything, int64(5), int64(20), "dup").Return(false, shared.ErrConcurrencyConflict)

		w := do(procurementEngine(manager(3), wf, nil), http.MethodPost, "/prs/5/cancel", `{"reason":"dup"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestProcurementHandler_Receive(t *testing.T) {
	t.Run("maps the payload", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("ReceiveGoods", mock.Anything, int64(5), mock.MatchedBy(func(in procurementapp.ReceiveGoodsInput) bool {
			return in.PONumber == "PO-77" &&
				in.SupplierName == "Fresh Co" &&
				in.UserID != nil && *in.UserID == 10 &&
				in.ReceivedDate != nil && in.ReceivedDate.Format(time.DateOnly) == "2026-03-05" &&
				len(in.Items) == 2 &&
				in.Items[0].UnitCost.Equal(decimal.RequireFromString("1.25")) &&
				in.Items[0].ExpiryDate != nil &&
				in.Items[1].UnitCost == nil && in.Items[1].ExpiryDate == nil
		})).Return(&procurementapp.ReceiveGoodsResult{PRID: 5, Status: procurement.PRStatusPartiallyReceived}, nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/receive", `{
			"po_number": "PO-77",
			"supplier_name": "Fresh Co",
			"received_date": "2026-03-05",
			"items": [
				{"pr_item_id": 1, "quantity": 4, "unit_cost": 1.25, "expiry_date": "2026-06-01"},
				{"pr_item_id": 2, "quantity": 1}
			]
		}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"partially_received"`)
		wf.AssertExpectations(t)
	})

	t.Run("accepts received_quantity", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("ReceiveGoods", mock.Anything, int64(5), mock.MatchedBy(func(in procurementapp.ReceiveGoodsInput) bool {
			return len(in.Items) == 2 &&
				in.Items[0].PRItemID == 1 && in.Items[0].Quantity == 4 &&
				in.Items[1].PRItemID == 2 && in.Items[1].Quantity == 3
		})).Return(&procurementapp.ReceiveGoodsResult{PRID: 5, Status: procurement.PRStatusPartiallyReceived}, nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/receive", `{
			"po_number": "PO-1",
			"supplier_name": "S",
			"items": [
				{"pr_item_id": 1, "received_quantity": 4},
				{"pr_item_id": 2, "quantity": 3, "received_quantity": 8}
			]
		}`)
		assert.Equal(t, http.StatusOK, w.Code)
		wf.AssertExpectations(t)
	})

	t.Run("quantity exceeded is 422", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
		wf.On("ReceiveGoods", mock.Anything, int64(5), mock.Anything).
			Return(nil, shared.NewDomainError("QUANTITY_EXCEEDED", "Only 2 left to receive"))

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/receive",
			`{"po_number":"PO-1","supplier_name":"S","items":[{"pr_item_id":1,"quantity":9}]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeQuantityExceeded, decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("bad expiry date", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/receive",
			`{"items":[{"pr_item_id":1,"quantity":1,"expiry_date":"soon"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		wf.AssertNotCalled(t, "ReceiveGoods", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign store", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 8, 10), nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/receive",
			`{"items":[{"pr_item_id":1,"quantity":1}]}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestProcurementHandler_Export(t *testing.T) {
	sheet := &procurementapp.Spreadsheet{
		FileName: "PR20260301-0001.xlsx",
		Sheet:    "PR20260301-0001",
		Header:   [][]string{{"PR Number", "PR20260301-0001"}},
		Columns:  []string{"No", "SKU"},
		Rows:     [][]string{{"1", "SKU-1"}},
		Footer:   [][]string{{"Total Items", "1"}},
	}
	wf := new(MockWorkflow)
	wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
	wf.On("ExportForPurchasing", mock.Anything, int64(5)).
		Return(&procurementapp.PurchasingDocument{DocumentType: procurementapp.DocumentTypePurchaseRequisition}, nil)
	wf.On("ExportToExcel", mock.Anything, int64(5)).Return(sheet, nil)
	r := procurementEngine(clerk(3), wf, nil)

	w := do(r, http.MethodGet, "/prs/5/export", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"document_type":"PURCHASE_REQUISITION"`)

	w = do(r, http.MethodGet, "/prs/5/export?format=spreadsheet", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"file_name":"PR20260301-0001.xlsx"`)

	w = do(r, http.MethodGet, "/prs/5/export?format=csv", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="PR20260301-0001.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PR Number,PR20260301-0001\n\nNo,SKU\n1,SKU-1\n\nTotal Items,1\n", w.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/prs/5/export?format=pdf", "").Code)
}

// brokenPipe accepts headers but fails every body write
type brokenPipe struct {
	*httptest.ResponseRecorder
}

func (brokenPipe) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestWriteCSV_LogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, _ := gin.CreateTestContext(brokenPipe{httptest.NewRecorder()})
	req := httptest.NewRequest(http.MethodGet, "/prs/5/export?format=csv", nil)
	c.Request = req.WithContext(logger.WithContext(context.Background(), zap.New(core)))

	writeCSV(c, &procurementapp.Spreadsheet{
		FileName: "PR-20260301-0001.xlsx",
		Header:   [][]string{{"PR Number", "PR-20260301-0001"}},
		Columns:  []string{"No"},
	})

	entries := logs.FilterMessage("Failed to write CSV export").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "PR-20260301-0001.csv", entries[0].ContextMap()["file"])
	assert.Contains(t, entries[0].ContextMap()["error"], "connection reset")
}

func TestProcurementHandler_ExportList(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("own store", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("ExportPRList", mock.Anything, int64(3), from, to).Return([]procurementapp.PRExportRow{
			{PRNumber: "PR-20260320-0002", ItemCount: 2, TotalAmount: decimal.RequireFromString("30")},
			{PRNumber: "PR-20260301-0001", ItemCount: 1, TotalAmount: decimal.RequireFromString("4.5")},
		}, nil)

		w := do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs/export?from=2026-03-01&to=2026-03-31", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []struct {
				PRNumber    string `json:"pr_number"`
				ItemCount   int    `json:"item_count"`
				TotalAmount string `json:"total_amount"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 2)
		assert.Equal(t, "PR-20260320-0002", body.Data[0].PRNumber)
		assert.Equal(t, 2, body.Data[0].ItemCount)
		assert.Equal(t, "30", body.Data[0].TotalAmount)
		wf.AssertExpectations(t)
	})

	t.Run("bad dates", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), new(MockWorkflow), nil), http.MethodGet, "/prs/export?from=March&to=2026-03-31", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin must name a store", func(t *testing.T) {
		w := do(procurementEngine(admin(), new(MockWorkflow), nil), http.MethodGet, "/prs/export?from=2026-03-01&to=2026-03-31", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reversed range", func(t *testing.T) {
		wf := new(MockWorkflow)
		wf.On("ExportPRList", mock.Anything, int64(3), to, from).
			Return(nil, shared.NewDomainError("INVALID_INPUT", "from must not be after to"))
		w := do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs/export?from=2026-03-31&to=2026-03-01", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProcurementHandler_Archive(t *testing.T) {
	wf := new(MockWorkflow)
	wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)

	t.Run("not configured", func(t *testing.T) {
		w := do(procurementEngine(clerk(3), wf, nil), http.MethodPost, "/prs/5/export/archive", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("archives", func(t *testing.T) {
		archiver := new(MockArchive)
		archiver.On("ArchiveExport", mock.Anything, int64(5)).
			Return(&procurementapp.ArchiveResult{StorageKey: "exports/pr/5/abc.json", DownloadURL: "https://s3/x"}, nil)

		w := do(procurementEngine(clerk(3), wf, archiver), http.MethodPost, "/prs/5/export/archive", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"download_url":"https://s3/x"`)
	})
}

func TestProcurementHandler_PurchaseOrders(t *testing.T) {
	wf := new(MockWorkflow)
	wf.On("GetPR", mock.Anything, int64(5)).Return(storePR(5, 3, 10), nil)
	wf.On("ListPurchaseOrders", mock.Anything, int64(5)).
		Return([]procurementapp.PurchaseOrderResponse{{ID: 1, PONumber: "PO-77", PRID: 5}}, nil)

	w := do(procurementEngine(clerk(3), wf, nil), http.MethodGet, "/prs/5/purchase-orders", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"po_number":"PO-77"`)
}

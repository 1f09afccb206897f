package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	notificationapp "github.com/wms/backend/internal/application/notification"
	procurementapp "github.com/wms/backend/internal/application/procurement"
	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type MockWorkflow struct {
	mock.Mock
}

func (m *MockWorkflow) CreatePR(ctx context.Context, in procurementapp.CreatePRInput) (*procurementapp.CreatePRResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.CreatePRResult), args.Error(1)
}

func (m *MockWorkflow) ApprovePR(ctx context.Context, prID, approverID int64, notes *string) (bool, error) {
	args := m.Called(ctx, prID, approverID, notes)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflow) RejectPR(ctx context.Context, prID, approverID int64, reason string) (bool, error) {
	args := m.Called(ctx, prID, approverID, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflow) CancelPR(ctx context.Context, prID, userID int64, reason string) (bool, error) {
	args := m.Called(ctx, prID, userID, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflow) ReceiveGoods(ctx context.Context, prID int64, in procurementapp.ReceiveGoodsInput) (*procurementapp.ReceiveGoodsResult, error) {
	args := m.Called(ctx, prID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.ReceiveGoodsResult), args.Error(1)
}

func (m *MockWorkflow) GetPR(ctx context.Context, prID int64) (*procurementapp.PRResponse, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PRResponse), args.Error(1)
}

func (m *MockWorkflow) ListPRsByStore(ctx context.Context, storeID int64, status string) ([]procurementapp.PRListItemResponse, error) {
	args := m.Called(ctx, storeID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurementapp.PRListItemResponse), args.Error(1)
}

func (m *MockWorkflow) ExportPRList(ctx context.Context, storeID int64, from, to time.Time) ([]procurementapp.PRExportRow, error) {
	args := m.Called(ctx, storeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurementapp.PRExportRow), args.Error(1)
}

func (m *MockWorkflow) ListPurchaseOrders(ctx context.Context, prID int64) ([]procurementapp.PurchaseOrderResponse, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurementapp.PurchaseOrderResponse), args.Error(1)
}

func (m *MockWorkflow) ExportForPurchasing(ctx context.Context, prID int64) (*procurementapp.PurchasingDocument, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PurchasingDocument), args.Error(1)
}

func (m *MockWorkflow) ExportToExcel(ctx context.Context, prID int64) (*procurementapp.Spreadsheet, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.Spreadsheet), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) ArchiveExport(ctx context.Context, prID int64) (*procurementapp.ArchiveResult, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.ArchiveResult), args.Error(1)
}

type MockDashboard struct {
	mock.Mock
}

func (m *MockDashboard) PendingApprovals(ctx context.Context, storeID *int64) ([]procurementapp.PendingApprovalResponse, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]procurementapp.PendingApprovalResponse), args.Error(1)
}

func (m *MockDashboard) UpcomingDeliveries(ctx context.Context, storeID *int64, days int) ([]procurementapp.DeliveryResponse, error) {
	args := m.Called(ctx, storeID, days)
	return args.Get(0).([]procurementapp.DeliveryResponse), args.Error(1)
}

func (m *MockDashboard) OverdueDeliveries(ctx context.Context, storeID *int64) ([]procurementapp.DeliveryResponse, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]procurementapp.DeliveryResponse), args.Error(1)
}

type MockStock struct {
	mock.Mock
}

func (m *MockStock) ListStoreStock(ctx context.Context, storeID int64) ([]inventoryapp.StoreItemResponse, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]inventoryapp.StoreItemResponse), args.Error(1)
}

func (m *MockStock) GetStoreItem(ctx context.Context, storeItemID int64) (*inventoryapp.StoreItemResponse, error) {
	args := m.Called(ctx, storeItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StoreItemResponse), args.Error(1)
}

func (m *MockStock) ListLots(ctx context.Context, storeItemID int64) ([]inventoryapp.LotResponse, error) {
	args := m.Called(ctx, storeItemID)
	return args.Get(0).([]inventoryapp.LotResponse), args.Error(1)
}

func (m *MockStock) ListTransactions(ctx context.Context, storeItemID int64, limit int) ([]inventoryapp.TransactionResponse, error) {
	args := m.Called(ctx, storeItemID, limit)
	return args.Get(0).([]inventoryapp.TransactionResponse), args.Error(1)
}

func (m *MockStock) VerifyBalance(ctx context.Context, storeItemID int64) (*inventoryapp.BalanceReport, error) {
	args := m.Called(ctx, storeItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.BalanceReport), args.Error(1)
}

func (m *MockStock) SetReorderPolicy(ctx context.Context, storeItemID int64, in inventoryapp.ReorderPolicyInput) (*inventoryapp.StoreItemResponse, error) {
	args := m.Called(ctx, storeItemID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StoreItemResponse), args.Error(1)
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) List(ctx context.Context, userID int64, in notificationapp.ListInput) ([]notificationapp.NotificationResponse, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notificationapp.NotificationResponse), args.Error(1)
}

func (m *MockInbox) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInbox) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockInbox) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }

func clerk(storeID int64) *auth.Claims {
	return &auth.Claims{UserID: 10, StoreID: int64Ptr(storeID), Role: organization.RoleUser}
}

func manager(storeID int64) *auth.Claims {
	return &auth.Claims{UserID: 20, StoreID: int64Ptr(storeID), Role: organization.RoleManager}
}

func admin() *auth.Claims {
	return &auth.Claims{UserID: 1, Role: organization.RoleAdmin}
}

// newTestEngine authenticates every request as claims (nil for anonymous)
func newTestEngine(claims *auth.Claims) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTUserIDKey, claims.UserID)
		}
		c.Next()
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jwtTime(t time.Time) *jwt.NumericDate {
	return jwt.NewNumericDate(t)
}

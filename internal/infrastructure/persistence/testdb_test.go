package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory SQLite database with the full schema and
// reference data: department 1, stores 1 and 2, users 7 (requester),
// 9 (manager) and 10 (store-less admin), master items 1 (flour) and 2 (sugar).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	db := database.DB
	require.NoError(t, db.AutoMigrate(models.All()...))

	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	base := func(id int64) models.BaseModel {
		return models.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now}
	}
	storeOne, storeTwo := int64(1), int64(2)

	require.NoError(t, db.Create(&models.DepartmentModel{BaseModel: base(1), Code: "OPS", Name: "Operations", IsActive: true}).Error)
	require.NoError(t, db.Create([]models.StoreModel{
		{BaseModel: base(1), DepartmentID: 1, Code: "S1", Name: "Central Kitchen", IsActive: true},
		{BaseModel: base(2), DepartmentID: 1, Code: "S2", Name: "Harbour Cafe", IsActive: true},
	}).Error)
	require.NoError(t, db.Create([]models.UserModel{
		{BaseModel: base(7), Username: "alice", FullName: "Alice Chen", Role: "user", StoreID: &storeOne, IsActive: true},
		{BaseModel: base(8), Username: "bob", Role: "user", StoreID: &storeTwo, IsActive: true},
		{BaseModel: base(9), Username: "mgr", FullName: "Morgan Lee", Role: "manager", StoreID: &storeOne, IsActive: true},
		{BaseModel: base(10), Username: "root", Role: "admin", IsActive: true},
	}).Error)
	require.NoError(t, db.Create([]models.MasterItemModel{
		{BaseModel: base(1), SKU: "SKU-FLOUR", Name: "Flour", Description: "Bread flour", Unit: "kg", IsActive: true},
		{BaseModel: base(2), SKU: "SKU-SUGAR", Name: "Sugar", Unit: "kg", IsActive: true},
	}).Error)

	return db
}

// newTestPR builds a transient PR for 10 flour at 2.50 and 4 sugar at 1.25
func newTestPR(t *testing.T, number string, storeID int64, status procurement.PRStatus, required time.Time) *procurement.PurchaseRequisition {
	t.Helper()
	pr, err := procurement.NewPurchaseRequisition(number, storeID, 7, procurement.PriorityHigh, required, "weekly order", procurement.PRStatusPending)
	require.NoError(t, err)
	_, err = pr.AddItem(1, 10, decimal.RequireFromString("2.50"), "")
	require.NoError(t, err)
	_, err = pr.AddItem(2, 4, decimal.RequireFromString("1.25"), "fine")
	require.NoError(t, err)
	pr.Status = status
	return pr
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

//go:build integration

package migration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wms/backend/internal/domain/procurement"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("wms_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestMigrator_UpDownAgainstPostgres(t *testing.T) {
	dsn := startPostgres(t)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := New(sqlDB, "", nil)
	require.NoError(t, err)

	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, m.Up(), "second up is a no-op")

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	seedReference(t, db)

	ctx := context.Background()
	repo := persistence.NewGormPurchaseRequisitionRepository(db)
	pr, err := procurement.NewPurchaseRequisition("PR-20240315-0001", 1, 7, procurement.PriorityNormal,
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "", procurement.PRStatusPending)
	require.NoError(t, err)
	_, err = pr.AddItem(1, 5, decimal.RequireFromString("2.50"), "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, pr))

	err = db.Transaction(func(tx *gorm.DB) error {
		locked, err := persistence.NewGormPurchaseRequisitionRepository(tx).FindForUpdate(ctx, pr.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "PR-20240315-0001", locked.PRNumber)
		return nil
	})
	require.NoError(t, err)

	dup, err := procurement.NewPurchaseRequisition("PR-20240315-0001", 1, 7, procurement.PriorityNormal,
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "", procurement.PRStatusPending)
	require.NoError(t, err)
	err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, persistence.IsUniqueViolation(err))
	assert.Equal(t, "idx_purchase_requisitions_pr_number", persistence.ConstraintName(err))

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	require.NoError(t, m.Close())
}

func seedReference(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now().UTC()
	base := func(id int64) models.BaseModel {
		return models.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now}
	}
	store := int64(1)
	require.NoError(t, db.Create(&models.DepartmentModel{BaseModel: base(1), Code: "OPS", Name: "Operations", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.StoreModel{BaseModel: base(1), DepartmentID: 1, Code: "S1", Name: "Central", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.UserModel{BaseModel: base(7), Username: "alice", Role: "user", StoreID: &store, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.MasterItemModel{BaseModel: base(1), SKU: "SKU-FLOUR", Name: "Flour", Unit: "kg", IsActive: true}).Error)
}

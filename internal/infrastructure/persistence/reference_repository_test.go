package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/organization"
	"github.com/wms/backend/internal/domain/shared"
)

func userIDs(users []organization.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func TestGormUserRepository_FindByStoreAndRoles(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	managers, err := repo.FindByStoreAndRoles(ctx, 1, organization.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, userIDs(managers))

	approvers, err := repo.FindByStoreAndRoles(ctx, 1, organization.RoleManager, organization.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 10}, userIDs(approvers))

	approvers, err = repo.FindByStoreAndRoles(ctx, 2, organization.RoleManager, organization.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, userIDs(approvers))

	none, err := repo.FindByStoreAndRoles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, none)

	user, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", user.FullName)
	_, err = repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMasterItemAndStoreRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	items := NewGormMasterItemRepository(db)
	stores := NewGormStoreRepository(db)

	flour, err := items.FindBySKU(ctx, "SKU-FLOUR")
	require.NoError(t, err)
	assert.Equal(t, int64(1), flour.ID)

	found, err := items.FindByIDs(ctx, []int64{2, 1, 99})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := items.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	active, err := stores.FindAllActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	store, err := stores.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Harbour Cafe", store.Name)
}

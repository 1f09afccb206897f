package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
)

func TestNewStoreItem(t *testing.T) {
	item, err := NewStoreItem(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.True(t, item.IsActive)

	_, err = NewStoreItem(0, 5)
	assert.Error(t, err)
	_, err = NewStoreItem(1, 0)
	assert.Error(t, err)
}

func TestStoreItem_IncreaseStock(t *testing.T) {
	item, err := NewStoreItem(1, 5)
	require.NoError(t, err)
	version := item.Version

	require.NoError(t, item.IncreaseStock(10))
	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, version+1, item.Version)

	err = item.IncreaseStock(0)
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_QUANTITY", ""))
	assert.Error(t, item.IncreaseStock(-3))
	assert.Equal(t, version+1, item.Version)
}

func TestStoreItem_SetReorderPolicyBumpsVersion(t *testing.T) {
	item, err := NewStoreItem(1, 5)
	require.NoError(t, err)
	version := item.Version

	require.NoError(t, item.SetReorderPolicy(2, 5, 20, 3, 2))
	assert.Equal(t, version+1, item.Version)

	require.Error(t, item.SetReorderPolicy(0, -1, 0, 0, 0))
	assert.Equal(t, version+1, item.Version)
	assert.Equal(t, 5, item.ReorderPoint)
}

func TestStoreItem_ReorderPoint(t *testing.T) {
	item, err := NewStoreItem(1, 5)
	require.NoError(t, err)
	assert.False(t, item.IsBelowReorderPoint(), "no reorder point configured")

	require.NoError(t, item.SetReorderPolicy(2, 5, 0, 3, 2))
	require.NoError(t, item.IncreaseStock(4))
	assert.True(t, item.IsBelowReorderPoint())
	assert.Equal(t, 4, item.SuggestedReorderQuantity())

	require.NoError(t, item.SetReorderPolicy(2, 5, 20, 3, 2))
	assert.Equal(t, 20, item.SuggestedReorderQuantity())

	require.NoError(t, item.IncreaseStock(10))
	assert.False(t, item.IsBelowReorderPoint())
	assert.Equal(t, 0, item.SuggestedReorderQuantity())

	assert.Error(t, item.SetReorderPolicy(-1, 0, 0, 0, 0))
}

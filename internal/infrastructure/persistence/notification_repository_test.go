package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/notification"
	"github.com/wms/backend/internal/domain/shared"
)

func TestGormNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	approved, err := notification.New(7, notification.TypePRApproved, "PR approved", "PR-1 was approved", map[string]any{"pr_id": 1}, "/prs/1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, approved))
	require.NotZero(t, approved.ID)

	batch := make([]*notification.Notification, 0, 3)
	for _, userID := range []int64{7, 9, 10} {
		n, err := notification.New(userID, notification.TypeLowStock, "Low stock", "Flour is low", nil, "/inventory/store-items/1")
		require.NoError(t, err)
		batch = append(batch, n)
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	for _, n := range batch {
		assert.NotZero(t, n.ID)
	}

	listed, err := repo.ListByUser(ctx, 7, notification.ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.JSONEq(t, `{"pr_id":1}`, string(listed[1].Data))

	typ := notification.TypeLowStock
	listed, err = repo.ListByUser(ctx, 7, notification.ListFilter{Type: &typ})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].Data)

	unread, err := repo.CountUnread(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	now := time.Now().UTC()
	require.NoError(t, repo.MarkRead(ctx, approved.ID, 7, now))
	require.NoError(t, repo.MarkRead(ctx, approved.ID, 7, now))
	assert.ErrorIs(t, repo.MarkRead(ctx, approved.ID, 9, now), shared.ErrNotFound)

	changed, err := repo.MarkAllRead(ctx, 7, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	listed, err = repo.ListByUser(ctx, 7, notification.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, listed)

	exists, err := repo.ExistsSince(ctx, 9, notification.TypeLowStock, "/inventory/store-items/1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsSince(ctx, 9, notification.TypeLowStock, "/inventory/store-items/2", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

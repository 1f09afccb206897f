package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(7, TypePRApproved, "PR approved", "PR-1 was approved", map[string]any{"pr_id": 3}, "/prs/3")
	require.NoError(t, err)
	assert.False(t, n.IsRead)

	var data map[string]any
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, float64(3), data["pr_id"])

	_, err = New(0, TypeSystem, "x", "", nil, "")
	assert.Error(t, err)
	_, err = New(7, Type("sms"), "x", "", nil, "")
	assert.Error(t, err)
	_, err = New(7, TypeSystem, "", "", nil, "")
	assert.Error(t, err)
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := New(7, TypeSystem, "hello", "", nil, "")
	require.NoError(t, err)

	first := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	n.MarkRead(first)
	n.MarkRead(first.Add(time.Hour))

	assert.True(t, n.IsRead)
	assert.Equal(t, first, *n.ReadAt)
}

func TestType_IsValid(t *testing.T) {
	for _, typ := range []Type{
		TypePRApproved, TypePRRejected, TypePRReceived, TypeLowStock,
		TypeDeliveryToday, TypeDeliveryOverdue, TypePendingApproval, TypeSystem,
	} {
		assert.True(t, typ.IsValid(), typ)
	}
	assert.False(t, Type("cross_pick_request").IsValid())
	assert.False(t, Type("").IsValid())
}

package procurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPRStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PRStatus
		isValid bool
	}{
		{PRStatusPending, true},
		{PRStatusOrdered, true},
		{PRStatusApproved, true},
		{PRStatusRejected, true},
		{PRStatusPartiallyReceived, true},
		{PRStatusFullyReceived, true},
		{PRStatusCancelled, true},
		{PRStatus("draft"), false},
		{PRStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPRStatus_IsReceivable(t *testing.T) {
	tests := []struct {
		status     PRStatus
		receivable bool
	}{
		{PRStatusPending, false},
		{PRStatusOrdered, true},
		{PRStatusApproved, true},
		{PRStatusRejected, false},
		{PRStatusPartiallyReceived, true},
		{PRStatusFullyReceived, false},
		{PRStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.receivable, tt.status.IsReceivable())
		})
	}
}

func TestPRStatus_IsTerminal(t *testing.T) {
	all := []PRStatus{
		PRStatusPending, PRStatusOrdered, PRStatusApproved, PRStatusRejected,
		PRStatusPartiallyReceived, PRStatusFullyReceived, PRStatusCancelled,
	}
	for _, from := range all {
		t.Run(string(from), func(t *testing.T) {
			leaves := false
			for _, to := range all {
				if from.CanTransitionTo(to) {
					leaves = true
				}
			}
			assert.Equal(t, !leaves, from.IsTerminal())
		})
	}
}

func TestPRStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PRStatus
		to       PRStatus
		canTrans bool
	}{
		{PRStatusPending, PRStatusApproved, true},
		{PRStatusPending, PRStatusRejected, true},
		{PRStatusPending, PRStatusCancelled, true},
		{PRStatusPending, PRStatusFullyReceived, false},
		{PRStatusApproved, PRStatusRejected, true},
		{PRStatusApproved, PRStatusPartiallyReceived, true},
		{PRStatusApproved, PRStatusPending, false},
		{PRStatusOrdered, PRStatusFullyReceived, true},
		{PRStatusOrdered, PRStatusApproved, false},
		{PRStatusPartiallyReceived, PRStatusFullyReceived, true},
		{PRStatusPartiallyReceived, PRStatusCancelled, false},
		{PRStatusRejected, PRStatusApproved, false},
		{PRStatusFullyReceived, PRStatusPartiallyReceived, false},
		{PRStatusCancelled, PRStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	line := func(qty, received int) PRItem {
		return PRItem{Quantity: qty, ReceivedQuantity: received}
	}

	tests := []struct {
		name  string
		items []PRItem
		want  PRStatus
	}{
		{"no items", nil, PRStatusApproved},
		{"nothing received", []PRItem{line(10, 0), line(5, 0)}, PRStatusApproved},
		{"one line partly", []PRItem{line(10, 3), line(5, 0)}, PRStatusPartiallyReceived},
		{"one line full", []PRItem{line(10, 10), line(5, 0)}, PRStatusPartiallyReceived},
		{"all full", []PRItem{line(10, 10), line(5, 5)}, PRStatusFullyReceived},
		{"over received counts as full", []PRItem{line(1, 2)}, PRStatusFullyReceived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.items))
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("")
	assert.True(t, ok)
	assert.Equal(t, PriorityNormal, p)

	p, ok = ParsePriority("urgent")
	assert.True(t, ok)
	assert.Equal(t, PriorityUrgent, p)

	_, ok = ParsePriority("asap")
	assert.False(t, ok)
}

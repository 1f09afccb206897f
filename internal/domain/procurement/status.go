package procurement

// PRStatus represents the status of a purchase requisition
type PRStatus string

const (
	PRStatusPending           PRStatus = "pending"
	PRStatusOrdered           PRStatus = "ordered"
	PRStatusApproved          PRStatus = "approved"
	PRStatusRejected          PRStatus = "rejected"
	PRStatusPartiallyReceived PRStatus = "partially_received"
	PRStatusFullyReceived     PRStatus = "fully_received"
	PRStatusCancelled         PRStatus = "cancelled"
)

// IsValid checks if the status is a valid PRStatus
func (s PRStatus) IsValid() bool {
	switch s {
	case PRStatusPending, PRStatusOrdered, PRStatusApproved, PRStatusRejected,
		PRStatusPartiallyReceived, PRStatusFullyReceived, PRStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PRStatus
func (s PRStatus) String() string {
	return string(s)
}

// IsReceivable returns true if goods can be received against the PR
func (s PRStatus) IsReceivable() bool {
	switch s {
	case PRStatusApproved, PRStatusOrdered, PRStatusPartiallyReceived:
		return true
	}
	return false
}

// IsTerminal returns true for states no workflow call leaves
func (s PRStatus) IsTerminal() bool {
	return s == PRStatusRejected || s == PRStatusFullyReceived || s == PRStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// approved -> rejected is accepted: a rejection may override an earlier approval.
func (s PRStatus) CanTransitionTo(target PRStatus) bool {
	switch s {
	case PRStatusPending:
		return target == PRStatusApproved || target == PRStatusRejected || target == PRStatusCancelled
	case PRStatusOrdered:
		return target == PRStatusPartiallyReceived || target == PRStatusFullyReceived ||
			target == PRStatusCancelled
	case PRStatusApproved:
		return target == PRStatusRejected || target == PRStatusPartiallyReceived ||
			target == PRStatusFullyReceived || target == PRStatusCancelled
	case PRStatusPartiallyReceived:
		return target == PRStatusPartiallyReceived || target == PRStatusFullyReceived
	case PRStatusRejected, PRStatusFullyReceived, PRStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DeriveStatus computes the receipt status from the items' received quantities.
// A PR with nothing received yet derives to approved.
func DeriveStatus(items []PRItem) PRStatus {
	if len(items) == 0 {
		return PRStatusApproved
	}

	allReceived := true
	anyReceived := false
	for i := range items {
		if !items[i].IsFullyReceived() {
			allReceived = false
		}
		if items[i].ReceivedQuantity > 0 {
			anyReceived = true
		}
	}

	switch {
	case allReceived:
		return PRStatusFullyReceived
	case anyReceived:
		return PRStatusPartiallyReceived
	default:
		return PRStatusApproved
	}
}

// Priority represents how urgently a PR should be handled
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority converts a raw value, defaulting blank values to normal
func ParsePriority(raw string) (Priority, bool) {
	if raw == "" {
		return PriorityNormal, true
	}
	p := Priority(raw)
	return p, p.IsValid()
}

// LineStatus is the approval status of a single PR line
type LineStatus string

const (
	LineStatusPending  LineStatus = "pending"
	LineStatusApproved LineStatus = "approved"
	LineStatusRejected LineStatus = "rejected"
)

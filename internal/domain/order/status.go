package order

import (
	"github.com/hellcat/store/internal/domain/shared"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// AllStatuses lists every order status
var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
}

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", shared.NewValidationError("Invalid order status: " + s)
}

// IsTerminal returns true for statuses that end the order lifecycle
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// IsPayable returns true if a payment may be attempted in this status
func (s Status) IsPayable() bool {
	return s == StatusPending || s == StatusProcessing
}

// TransitionPolicy decides which manual status changes are allowed
type TransitionPolicy interface {
	Allows(from, to Status) bool
}

// PermissiveTransitions allows any status to be overwritten with any other
type PermissiveTransitions struct{}

// Allows always returns true
func (PermissiveTransitions) Allows(_, _ Status) bool {
	return true
}

// StrictTransitions enforces the order state machine:
// pending -> processing | cancelled, processing -> completed | refunded | cancelled,
// terminal states never change.
type StrictTransitions struct{}

var strictTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusRefunded, StatusCancelled},
}

// Allows reports whether from may move to to. Re-applying the current status is allowed.
func (StrictTransitions) Allows(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewTransitionPolicy returns the strict policy when strict is set, otherwise the permissive one
func NewTransitionPolicy(strict bool) TransitionPolicy {
	if strict {
		return StrictTransitions{}
	}
	return PermissiveTransitions{}
}

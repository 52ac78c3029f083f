package application

import "errors"

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("order not found")
	ErrNotPending    = errors.New("order not in pending list")
	ErrNotInProgress = errors.New("order not in in-progress list")
	ErrNotCompleted  = errors.New("order not in completed list")
	ErrNoItems       = errors.New("order must have at least one item")
)

// BatchResult summarizes a batch operation over several orders.
type BatchResult struct {
	Succeeded int
	Failed    int
	Details   []string
}

// CancelResult reports the outcome of canceling one order.
type CancelResult struct {
	Archived    bool
	FileDeleted bool
}

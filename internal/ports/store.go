package ports

import "orderdesk/internal/domain"

// Snapshot is a full dump of the three status collections, used to
// restore state across restarts.
type Snapshot struct {
	Pending    []*domain.Order `json:"pending_orders"`
	InProgress []*domain.Order `json:"in_progress_orders"`
	Completed  []*domain.Order `json:"completed_orders"`
}

// SnapshotStore persists the order state snapshot. The on-disk
// encoding is the store's business; it only has to round-trip the
// order shape losslessly.
type SnapshotStore interface {
	Save(s Snapshot) error
	// Load returns nil (and no error) when no snapshot exists yet.
	Load() (*Snapshot, error)
	Has() bool
	Clear() error
}

// CanceledArchive records orders removed from the board.
type CanceledArchive interface {
	Append(order *domain.Order) error
	List() ([]*domain.Order, error)
	Count() (int, error)
	Clear() error
	Close() error
}

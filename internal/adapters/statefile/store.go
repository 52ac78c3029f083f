// Package statefile persists the order state snapshot as an indented
// JSON file next to the application.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"

	"orderdesk/internal/ports"
)

// DefaultFileName is the reserved snapshot name. The ingestion
// pipeline never treats a file with this name as an input order file.
const DefaultFileName = "orders_state.json"

// Store implements ports.SnapshotStore on a single JSON file.
type Store struct {
	path string
}

var _ ports.SnapshotStore = (*Store)(nil)

// New creates a store writing to path, or DefaultFileName when empty.
func New(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Save writes the full snapshot, replacing any previous one.
func (s *Store) Save(snap ports.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode order state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write order state: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file returns (nil, nil).
func (s *Store) Load() (*ports.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read order state: %w", err)
	}
	var snap ports.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode order state: %w", err)
	}
	return &snap, nil
}

// Has reports whether a snapshot file exists.
func (s *Store) Has() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Clear removes the snapshot file if present.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear order state: %w", err)
	}
	return nil
}

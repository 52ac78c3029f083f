package application

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"orderdesk/internal/domain"
	"orderdesk/internal/ports"
)

// memStore is an in-memory ports.SnapshotStore for tests.
type memStore struct {
	snap  *ports.Snapshot
	saves int
}

func (m *memStore) Save(s ports.Snapshot) error {
	m.saves++
	m.snap = &s
	return nil
}

func (m *memStore) Load() (*ports.Snapshot, error) { return m.snap, nil }
func (m *memStore) Has() bool { return m.snap != nil }
func (m *memStore) Clear() error { m.snap = nil; return nil }

// memArchive is an in-memory ports.CanceledArchive for tests.
type memArchive struct {
	orders []*domain.Order
}

func (m *memArchive) Append(o *domain.Order) error { m.orders = append(m.orders, o); return nil }
func (m *memArchive) List() ([]*domain.Order, error) { return m.orders, nil }
func (m *memArchive) Count() (int, error) { return len(m.orders), nil }
func (m *memArchive) Clear() error { m.orders = nil; return nil }
func (m *memArchive) Close() error { return nil }

func testBoard(t *testing.T) (*Board, *memStore, *memArchive) {
	t.Helper()
	store := &memStore{}
	archive := &memArchive{}
	board := NewBoard(store, archive, t.TempDir(), log.New(io.Discard))
	return board, store, archive
}

func testOrder(source string, date int64) *domain.Order {
	return &domain.Order{
		Type:      "Burger",
		Source:    source,
		OrderDate: date,
		Items:     []domain.Item{domain.NewItem("Cheeseburger", 1, 8.50)},
	}
}

func TestAdmitForcesPendingAndDeduplicates(t *testing.T) {
	board, store, _ := testBoard(t)

	first := testOrder("Patty Shack", 1700000000000)
	first.Status = domain.StatusCompleted

	admitted := board.Admit([]*domain.Order{first})
	if len(admitted) != 1 {
		t.Fatalf("admitted %d, want 1", len(admitted))
	}
	if first.Status != domain.StatusPending {
		t.Errorf("Status = %v, want forced PENDING", first.Status)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}

	// The same logical order from a different file is a duplicate even
	// though it is a distinct pointer.
	clone := testOrder("Patty Shack", 1700000000000)
	if admitted := board.Admit([]*domain.Order{clone}); len(admitted) != 0 {
		t.Errorf("admitted duplicate: %v", admitted)
	}

	// Duplicates inside one batch are also collapsed.
	a := testOrder("Kenji", 1700000001000)
	b := testOrder("Kenji", 1700000001000)
	if admitted := board.Admit([]*domain.Order{a, b}); len(admitted) != 1 {
		t.Errorf("admitted %d from duplicated batch, want 1", len(admitted))
	}

	if got := len(board.Pending()); got != 2 {
		t.Errorf("pending = %d, want 2", got)
	}
}

func TestAdmitDetectsDuplicateAcrossColumns(t *testing.T) {
	board, _, _ := testBoard(t)

	order := testOrder("Patty Shack", 1700000000000)
	board.Admit([]*domain.Order{order})
	if err := board.Start(order); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Dedup compares against every column, not just pending.
	clone := testOrder("Patty Shack", 1700000000000)
	clone.Status = domain.StatusInProgress
	if admitted := board.Admit([]*domain.Order{clone}); len(admitted) != 0 {
		t.Errorf("admitted duplicate of in-progress order: %v", admitted)
	}
	if got := len(board.Pending()); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
}

func TestTransitions(t *testing.T) {
	board, _, _ := testBoard(t)
	order := testOrder("Kenji", 1700000000000)
	board.Admit([]*domain.Order{order})

	if err := board.Start(order); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if order.Status != domain.StatusInProgress || len(board.InProgress()) != 1 {
		t.Error("order not in progress after Start")
	}

	if err := board.Complete(order); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if order.Status != domain.StatusCompleted || len(board.Completed()) != 1 {
		t.Error("order not completed after Complete")
	}

	if err := board.UndoComplete(order); err != nil {
		t.Fatalf("UndoComplete: %v", err)
	}
	if order.Status != domain.StatusInProgress {
		t.Error("order not back in progress")
	}

	if err := board.UndoStart(order); err != nil {
		t.Fatalf("UndoStart: %v", err)
	}
	if order.Status != domain.StatusPending || len(board.Pending()) != 1 {
		t.Error("order not back in pending")
	}
}

func TestTransitionErrors(t *testing.T) {
	board, _, _ := testBoard(t)
	order := testOrder("Kenji", 1700000000000)
	board.Admit([]*domain.Order{order})

	if err := board.Complete(order); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Complete on pending = %v, want ErrNotInProgress", err)
	}
	if err := board.UndoStart(order); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("UndoStart on pending = %v, want ErrNotInProgress", err)
	}

	stranger := testOrder("Nowhere", 1)
	if err := board.Start(stranger); !errors.Is(err, ErrNotPending) {
		t.Errorf("Start on unknown = %v, want ErrNotPending", err)
	}
}

func TestBatchTransitions(t *testing.T) {
	board, _, _ := testBoard(t)
	a := testOrder("A", 1700000000000)
	b := testOrder("B", 1700000001000)
	board.Admit([]*domain.Order{a, b})

	stranger := testOrder("C", 1700000002000)
	result := board.StartBatch([]*domain.Order{a, b, stranger})
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("StartBatch = %d/%d, want 2 succeeded 1 failed", result.Succeeded, result.Failed)
	}
	if len(result.Details) != 1 {
		t.Errorf("Details = %v, want one entry", result.Details)
	}

	result = board.CompleteBatch([]*domain.Order{a, b})
	if result.Succeeded != 2 || result.Failed != 0 {
		t.Errorf("CompleteBatch = %d/%d, want 2 succeeded", result.Succeeded, result.Failed)
	}
	if len(board.Completed()) != 2 {
		t.Errorf("completed = %d, want 2", len(board.Completed()))
	}
}

func TestCancelArchivesAndDeletesSourceFile(t *testing.T) {
	store := &memStore{}
	archive := &memArchive{}
	uploads := t.TempDir()

	path := filepath.Join(uploads, "patty_shack_order.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	board := NewBoard(store, archive, uploads, log.New(io.Discard))
	order := testOrder("Patty Shack", 1700000000000)
	board.Admit([]*domain.Order{order})

	result, err := board.Cancel(order)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !result.Archived {
		t.Error("canceled order should be archived")
	}
	if !result.FileDeleted {
		t.Error("matching source file should be deleted")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("source file still on disk")
	}
	if n, _ := archive.Count(); n != 1 {
		t.Errorf("archive count = %d, want 1", n)
	}
	if board.Contains(order) {
		t.Error("canceled order still on the board")
	}

	if _, err := board.Cancel(order); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Cancel = %v, want ErrNotFound", err)
	}
}

func TestCancelWithoutSourceFile(t *testing.T) {
	board, _, archive := testBoard(t)
	order := testOrder("Ghost Kitchen", 1700000000000)
	board.Admit([]*domain.Order{order})

	result, err := board.Cancel(order)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if result.FileDeleted {
		t.Error("no file existed, FileDeleted should be false")
	}
	if n, _ := archive.Count(); n != 1 {
		t.Errorf("archive count = %d, want 1", n)
	}
}

func TestCancelWithNilArchive(t *testing.T) {
	// No archive configured at all, as when opening the database
	// failed at startup. Cancel must still remove the order.
	board := NewBoard(&memStore{}, nil, t.TempDir(), log.New(io.Discard))
	order := testOrder("Patty Shack", 1700000000000)
	board.Admit([]*domain.Order{order})

	result, err := board.Cancel(order)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if result.Archived {
		t.Error("nothing to archive to, Archived should be false")
	}
	if board.Contains(order) {
		t.Error("canceled order still on the board")
	}
}

func TestSetItems(t *testing.T) {
	board, store, _ := testBoard(t)
	order := testOrder("Kenji", 1700000000000)
	board.Admit([]*domain.Order{order})

	items := []domain.Item{domain.NewItem("Sashimi", 2, 6.0)}
	if err := board.SetItems(order, items); err != nil {
		t.Fatalf("SetItems: %v", err)
	}
	if order.Total() != 12.0 {
		t.Errorf("Total = %v, want 12.0", order.Total())
	}
	if store.saves < 2 {
		t.Errorf("saves = %d, want admit + set", store.saves)
	}

	items = []domain.Item{domain.NewItem("Miso", 1, 3.0)}
	if err := board.SetItems(testOrder("X", 1), items); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetItems on unknown = %v, want ErrNotFound", err)
	}
}

func TestSetItemsUpdatesBoardEntry(t *testing.T) {
	board, _, _ := testBoard(t)
	order := testOrder("Kenji", 1700000000000)
	board.Admit([]*domain.Order{order})

	// An equal copy, as a CLI caller working off a loaded snapshot
	// would hold. The board's own entry must be the one that changes.
	clone := testOrder("Kenji", 1700000000000)
	clone.Status = domain.StatusPending
	items := []domain.Item{domain.NewItem("Sashimi", 3, 6.0)}
	if err := board.SetItems(clone, items); err != nil {
		t.Fatalf("SetItems: %v", err)
	}
	if got := board.Pending()[0].Total(); got != 18.0 {
		t.Errorf("board entry total = %v, want 18.0", got)
	}
}

func TestSetItemsRejectsEmpty(t *testing.T) {
	board, _, _ := testBoard(t)
	order := testOrder("Kenji", 1700000000000)
	board.Admit([]*domain.Order{order})

	if err := board.SetItems(order, nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("SetItems(nil) = %v, want ErrNoItems", err)
	}
	if err := board.SetItems(order, []domain.Item{}); !errors.Is(err, ErrNoItems) {
		t.Errorf("SetItems(empty) = %v, want ErrNoItems", err)
	}
	if len(order.Items) != 1 {
		t.Error("rejected SetItems must not touch the order")
	}
}

func TestLoadRestoresSnapshot(t *testing.T) {
	store := &memStore{}
	a := testOrder("A", 1700000000000)
	a.Status = domain.StatusPending
	b := testOrder("B", 1700000001000)
	b.Status = domain.StatusCompleted
	store.snap = &ports.Snapshot{
		Pending:   []*domain.Order{a},
		Completed: []*domain.Order{b},
	}

	board := NewBoard(store, nil, t.TempDir(), log.New(io.Discard))
	if err := board.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(board.Pending()) != 1 || len(board.Completed()) != 1 {
		t.Error("snapshot collections not restored")
	}

	// Loading with no snapshot leaves the board empty and is no error.
	empty := NewBoard(&memStore{}, nil, t.TempDir(), log.New(io.Discard))
	if err := empty.Load(); err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(empty.All()) != 0 {
		t.Error("board should be empty without a snapshot")
	}
}

func TestAutoRefreshToggle(t *testing.T) {
	board, _, _ := testBoard(t)
	if !board.AutoRefresh() {
		t.Error("auto-refresh should default to on")
	}
	board.SetAutoRefresh(false)
	if board.AutoRefresh() {
		t.Error("auto-refresh should be off after toggle")
	}
}

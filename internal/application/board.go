package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"orderdesk/internal/domain"
	"orderdesk/internal/ports"
)

// Board holds the live pending / in-progress / completed collections
// and every operation that mutates them. It is deliberately not
// goroutine-safe: all calls must come from the single goroutine that
// owns the UI state. The watcher never touches a Board directly; its
// events are applied here by the owner.
type Board struct {
	store   ports.SnapshotStore
	archive ports.CanceledArchive
	logger  *log.Logger

	pending    []*domain.Order
	inProgress []*domain.Order
	completed  []*domain.Order

	// sourceFiles maps admitted orders to the upload file they came
	// from, so cancellation can remove the file as well.
	sourceFiles map[*domain.Order]string
	uploadsDir  string

	autoRefresh bool
}

// NewBoard creates an empty board. The archive may be nil, in which
// case canceled orders are dropped after removal.
func NewBoard(store ports.SnapshotStore, archive ports.CanceledArchive, uploadsDir string, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	return &Board{
		store:       store,
		archive:     archive,
		logger:      logger,
		sourceFiles: make(map[*domain.Order]string),
		uploadsDir:  uploadsDir,
		autoRefresh: true,
	}
}

// Load restores the board from the snapshot store. A missing snapshot
// leaves the board empty and is not an error.
func (b *Board) Load() error {
	snap, err := b.store.Load()
	if err != nil {
		return fmt.Errorf("load order state: %w", err)
	}
	if snap == nil {
		return nil
	}
	b.pending = snap.Pending
	b.inProgress = snap.InProgress
	b.completed = snap.Completed
	for _, o := range b.All() {
		b.trackSourceFile(o)
	}
	b.logger.Info("order state loaded",
		"pending", len(b.pending), "in_progress", len(b.inProgress), "completed", len(b.completed))
	return nil
}

// Pending returns the pending orders. The returned slice is a copy;
// the orders are shared.
func (b *Board) Pending() []*domain.Order { return copyOrders(b.pending) }

// InProgress returns the in-progress orders.
func (b *Board) InProgress() []*domain.Order { return copyOrders(b.inProgress) }

// Completed returns the completed orders.
func (b *Board) Completed() []*domain.Order { return copyOrders(b.completed) }

// All returns every order on the board, pending first.
func (b *Board) All() []*domain.Order {
	all := make([]*domain.Order, 0, len(b.pending)+len(b.inProgress)+len(b.completed))
	all = append(all, b.pending...)
	all = append(all, b.inProgress...)
	all = append(all, b.completed...)
	return all
}

func copyOrders(orders []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(orders))
	copy(out, orders)
	return out
}

// Contains reports whether an order structurally equal to o is already
// on the board, in any of the three collections.
func (b *Board) Contains(o *domain.Order) bool {
	return domain.ContainsOrder(b.pending, o) ||
		domain.ContainsOrder(b.inProgress, o) ||
		domain.ContainsOrder(b.completed, o)
}

// Admit filters a candidate batch against the board by structural
// equality and appends the survivors to the pending list with status
// forced to PENDING, whatever the parsed data said. This is the second
// line of defense after the filename ledger: two different files can
// still describe the same logical order.
func (b *Board) Admit(candidates []*domain.Order) []*domain.Order {
	var admitted []*domain.Order
	for _, o := range candidates {
		if b.Contains(o) || domain.ContainsOrder(admitted, o) {
			b.logger.Info("duplicate order skipped", "source", o.SourceOrDefault(), "date", o.OrderDate)
			continue
		}
		o.Status = domain.StatusPending
		b.pending = append(b.pending, o)
		b.trackSourceFile(o)
		admitted = append(admitted, o)
	}
	if len(admitted) > 0 {
		b.save()
	}
	return admitted
}

// Start moves a pending order to in-progress.
func (b *Board) Start(o *domain.Order) error {
	return b.transition(o, &b.pending, &b.inProgress, domain.StatusInProgress, ErrNotPending)
}

// Complete moves an in-progress order to completed.
func (b *Board) Complete(o *domain.Order) error {
	return b.transition(o, &b.inProgress, &b.completed, domain.StatusCompleted, ErrNotInProgress)
}

// UndoStart moves an in-progress order back to pending.
func (b *Board) UndoStart(o *domain.Order) error {
	return b.transition(o, &b.inProgress, &b.pending, domain.StatusPending, ErrNotInProgress)
}

// UndoComplete moves a completed order back to in-progress.
func (b *Board) UndoComplete(o *domain.Order) error {
	return b.transition(o, &b.completed, &b.inProgress, domain.StatusInProgress, ErrNotCompleted)
}

func (b *Board) transition(o *domain.Order, from, to *[]*domain.Order, status domain.Status, notFound error) error {
	idx := indexOf(*from, o)
	if idx < 0 {
		return notFound
	}
	order := (*from)[idx]
	*from = append((*from)[:idx], (*from)[idx+1:]...)
	order.Status = status
	*to = append(*to, order)
	b.save()
	return nil
}

func indexOf(orders []*domain.Order, target *domain.Order) int {
	for i, o := range orders {
		if o == target || o.Equal(target) {
			return i
		}
	}
	return -1
}

// StartBatch applies Start to each order, collecting failures instead
// of stopping at the first one.
func (b *Board) StartBatch(orders []*domain.Order) BatchResult {
	return b.applyBatch(orders, b.Start)
}

// CompleteBatch applies Complete to each order.
func (b *Board) CompleteBatch(orders []*domain.Order) BatchResult {
	return b.applyBatch(orders, b.Complete)
}

func (b *Board) applyBatch(orders []*domain.Order, op func(*domain.Order) error) BatchResult {
	var result BatchResult
	for _, o := range orders {
		if err := op(o); err != nil {
			result.Failed++
			result.Details = append(result.Details, fmt.Sprintf("%s: %v", o.SourceOrDefault(), err))
			continue
		}
		result.Succeeded++
	}
	return result
}

// Cancel removes an order from whichever collection holds it, records
// it in the canceled archive and best-effort deletes its source file.
func (b *Board) Cancel(o *domain.Order) (CancelResult, error) {
	var result CancelResult

	lists := []*[]*domain.Order{&b.pending, &b.inProgress, &b.completed}
	idx, list := -1, (*[]*domain.Order)(nil)
	for _, l := range lists {
		if i := indexOf(*l, o); i >= 0 {
			idx, list = i, l
			break
		}
	}
	if list == nil {
		return result, ErrNotFound
	}
	order := (*list)[idx]

	if b.archive != nil {
		if err := b.archive.Append(order); err != nil {
			b.logger.Error("archiving canceled order", "source", order.SourceOrDefault(), "err", err)
		} else {
			result.Archived = true
		}
	}

	result.FileDeleted = b.deleteSourceFile(order)

	*list = append((*list)[:idx], (*list)[idx+1:]...)
	delete(b.sourceFiles, order)
	b.save()
	return result, nil
}

// SetItems replaces an order's item list and persists the change. The
// order may be an equal copy of a board entry; the board's own entry is
// the one updated. An empty list is rejected, keeping the order valid.
func (b *Board) SetItems(o *domain.Order, items []domain.Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	all := b.All()
	idx := indexOf(all, o)
	if idx < 0 {
		return ErrNotFound
	}
	all[idx].Items = items
	b.save()
	return nil
}

// AutoRefresh reports whether discovered-order events should be
// applied automatically.
func (b *Board) AutoRefresh() bool { return b.autoRefresh }

// SetAutoRefresh toggles automatic application of discovered orders.
func (b *Board) SetAutoRefresh(enabled bool) { b.autoRefresh = enabled }

// save writes the snapshot after every mutation. Failures are logged,
// not fatal: the in-memory state stays authoritative.
func (b *Board) save() {
	if b.store == nil {
		return
	}
	snap := ports.Snapshot{
		Pending:    b.pending,
		InProgress: b.inProgress,
		Completed:  b.completed,
	}
	if err := b.store.Save(snap); err != nil {
		b.logger.Error("saving order state", "err", err)
	}
}

// trackSourceFile records which upload file an order came from, so a
// later cancel can remove the file. Matching is heuristic: the source
// name (normalized) first, the order timestamp second.
func (b *Board) trackSourceFile(o *domain.Order) {
	if _, ok := b.sourceFiles[o]; ok {
		return
	}
	if path := b.findSourceFile(o); path != "" {
		b.sourceFiles[o] = path
	}
}

func (b *Board) findSourceFile(o *domain.Order) string {
	entries, err := os.ReadDir(b.uploadsDir)
	if err != nil {
		return ""
	}

	normalizedSource := ""
	if o.Source != "" {
		normalizedSource = normalizeName(o.Source)
	}

	var byTimestamp string
	timestamp := strconv.FormatInt(o.OrderDate, 10)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json", ".xml":
		default:
			continue
		}
		if normalizedSource != "" && strings.Contains(normalizeName(name), normalizedSource) {
			return filepath.Join(b.uploadsDir, name)
		}
		if byTimestamp == "" && strings.Contains(name, timestamp) {
			byTimestamp = filepath.Join(b.uploadsDir, name)
		}
	}
	return byTimestamp
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// deleteSourceFile removes the upload file behind an order, if one was
// tracked or can still be found.
func (b *Board) deleteSourceFile(o *domain.Order) bool {
	path, ok := b.sourceFiles[o]
	if !ok {
		path = b.findSourceFile(o)
	}
	if path == "" {
		return false
	}
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			b.logger.Error("deleting order source file", "file", path, "err", err)
		}
		return false
	}
	return true
}

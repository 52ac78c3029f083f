// Package ingest implements the order ingestion pipeline: directory
// scanning, JSON/XML parsing with fault-tolerant schemas, the
// processed-file ledger, and a background watcher that pushes newly
// discovered orders to subscribers.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"orderdesk/internal/domain"
)

// EventKind tags a pipeline event.
type EventKind int

const (
	// EventOrdersDiscovered carries orders newly parsed from watched
	// files. Each batch is delivered once.
	EventOrdersDiscovered EventKind = iota
	// EventOrdersReloaded signals a full resync of the order set.
	EventOrdersReloaded
)

// Event is the tagged message delivered to subscribers. Applying it to
// shared state is the subscriber's job, on the goroutine that owns
// that state.
type Event struct {
	Kind   EventKind
	Orders []*domain.Order
}

// Subscription receives pipeline events over a buffered channel.
type Subscription struct {
	ch chan Event
}

// Events returns the subscriber's receive channel.
func (s *Subscription) Events() <-chan Event { return s.ch }

// WatchState is the watcher lifecycle state.
type WatchState int32

const (
	WatchStopped WatchState = iota
	WatchStarting
	WatchRunning
)

func (s WatchState) String() string {
	switch s {
	case WatchStarting:
		return "STARTING"
	case WatchRunning:
		return "RUNNING"
	default:
		return "STOPPED"
	}
}

// Options configures a Pipeline.
type Options struct {
	// FallbackDirs are tried when the scan directory does not exist.
	FallbackDirs []string
	// ReservedFile is the snapshot base name excluded from ingestion.
	ReservedFile string
	// Strategy selects the watcher: "auto", "fsnotify" or "poll".
	Strategy string
	// PollInterval is the polling watcher tick; defaults to 2s.
	PollInterval time.Duration
	// SettleDelay is the pause after a file event before reading;
	// defaults to 100ms.
	SettleDelay time.Duration
	// Logger defaults to the package default logger.
	Logger *log.Logger
}

// Pipeline owns the processed-file ledger, the subscriber registry and
// the watcher state. Construct one per process and hand it to every
// collaborator; there is no package-level state.
type Pipeline struct {
	opts   Options
	ledger *Ledger
	logger *log.Logger

	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.Mutex
	subs []*Subscription
}

// NewPipeline creates a stopped pipeline with an empty ledger.
func NewPipeline(opts Options) *Pipeline {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Pipeline{
		opts:   opts,
		ledger: NewLedger(),
		logger: opts.Logger,
	}
}

// State returns the current watcher state.
func (p *Pipeline) State() WatchState {
	return WatchState(p.state.Load())
}

// ResetLedger forgets every processed filename. Exposed for explicit
// reload flows; the pipeline never calls it on its own.
func (p *Pipeline) ResetLedger() {
	p.ledger.Reset()
}

// ProcessedCount returns the number of filenames in the ledger.
func (p *Pipeline) ProcessedCount() int {
	return p.ledger.Len()
}

// Subscribe registers a new subscriber with the given channel buffer.
// Events that would overflow the buffer are dropped and logged rather
// than blocking the watcher.
func (p *Pipeline) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{ch: make(chan Event, buffer)}
	p.mu.Lock()
	p.subs = append(p.subs, sub)
	p.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (p *Pipeline) Unsubscribe(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s == sub {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// publish delivers an event to every subscriber. Sends are
// non-blocking; a slow subscriber loses the event, not the watcher.
func (p *Pipeline) publish(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sub := range p.subs {
		select {
		case sub.ch <- ev:
		default:
			p.logger.Warn("dropping event for slow subscriber", "kind", ev.Kind, "orders", len(ev.Orders))
		}
	}
}

func (p *Pipeline) notifyDiscovered(orders []*domain.Order) {
	if len(orders) == 0 {
		return
	}
	p.publish(Event{Kind: EventOrdersDiscovered, Orders: orders})
}

// NotifyReloaded broadcasts a full resync of the order set.
func (p *Pipeline) NotifyReloaded(all []*domain.Order) {
	p.publish(Event{Kind: EventOrdersReloaded, Orders: all})
}

// ScanOnce enumerates dir (or its fallbacks) and returns every order
// parsed from files not yet in the ledger. Idempotent with respect to
// the ledger: a second scan with no new files yields nothing.
func (p *Pipeline) ScanOnce(dir string) []*domain.Order {
	return scanDirectory(dir, p.opts.FallbackDirs, p.opts.ReservedFile, p.ledger, p.logger)
}

// StartWatching starts the background watcher on dir, creating the
// directory if it does not exist. Starting while a watcher is already
// running is a no-op. The watcher goroutine is not joined; StopWatching
// signals it and waits for the loop to exit.
func (p *Pipeline) StartWatching(dir string) error {
	if !p.state.CompareAndSwap(int32(WatchStopped), int32(WatchStarting)) {
		p.logger.Info("watcher already running", "dir", dir)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		p.state.Store(int32(WatchStopped))
		return fmt.Errorf("create watch directory %s: %w", dir, err)
	}

	strat, err := p.newStrategy(dir)
	if err != nil {
		p.state.Store(int32(WatchStopped))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.state.Store(int32(WatchRunning))
	p.logger.Info("watcher started", "dir", dir, "strategy", strat.name())

	go func() {
		defer func() {
			p.state.Store(int32(WatchStopped))
			close(p.done)
			p.logger.Info("watcher stopped", "dir", dir)
		}()
		strat.run(ctx)
	}()

	return nil
}

// StopWatching signals the watcher and waits for its loop to exit.
// Safe to call when no watcher is running.
func (p *Pipeline) StopWatching() {
	if p.State() == WatchStopped || p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// newStrategy picks the watcher implementation. In auto mode the
// native event facility is probed first, degrading to polling when it
// is unavailable.
func (p *Pipeline) newStrategy(dir string) (watchStrategy, error) {
	switch p.opts.Strategy {
	case "poll":
		return &pollWatcher{p: p, dir: dir}, nil
	case "fsnotify":
		return newNotifyWatcher(p, dir)
	default:
		strat, err := newNotifyWatcher(p, dir)
		if err != nil {
			p.logger.Warn("native file events unavailable, falling back to polling", "err", err)
			return &pollWatcher{p: p, dir: dir}, nil
		}
		return strat, nil
	}
}

// isOrderFile reports whether a base name looks like an input order
// file: .json or .xml, excluding the reserved snapshot name. The
// reserved name is matched case-insensitively, like the extension.
func (p *Pipeline) isOrderFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return !strings.EqualFold(name, p.opts.ReservedFile)
	case ".xml":
		return true
	default:
		return false
	}
}

// parseWatchedFile parses one watched file and marks it processed only
// on a non-empty result, leaving failed files eligible for retry.
func (p *Pipeline) parseWatchedFile(path, name string) []*domain.Order {
	if strings.ToLower(filepath.Ext(name)) == ".xml" {
		result := ImportXML(path)
		for _, importErr := range result.Errors {
			p.logger.Error("XML import error", "file", name, "err", importErr)
		}
		if result.SuccessCount() == 0 {
			return nil
		}
		p.ledger.Add(name)
		return result.Orders
	}

	order, err := ReadJSONOrder(path)
	if err != nil {
		p.logger.Error("skipping JSON order file", "file", name, "err", err)
		return nil
	}
	p.ledger.Add(name)
	return []*domain.Order{order}
}

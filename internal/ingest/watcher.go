package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"orderdesk/internal/domain"
)

// watchStrategy is the contract both watcher implementations satisfy.
// run blocks until the context is cancelled or the strategy hits an
// unrecoverable error; per-file parse failures never end the loop.
type watchStrategy interface {
	name() string
	run(ctx context.Context)
}

// notifyWatcher reacts to native create/modify events on the watched
// directory.
type notifyWatcher struct {
	p   *Pipeline
	dir string
	fsw *fsnotify.Watcher
}

// newNotifyWatcher registers dir with the OS file-event facility. An
// error here means the facility is unavailable and the caller should
// fall back to polling.
func newNotifyWatcher(p *Pipeline, dir string) (*notifyWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}
	return &notifyWatcher{p: p, dir: dir, fsw: fsw}, nil
}

func (w *notifyWatcher) name() string { return "fsnotify" }

func (w *notifyWatcher) run(ctx context.Context) {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.fsw.Events:
			if !ok {
				w.p.logger.Warn("watch event channel closed")
				return
			}
			if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(evt.Name)
			if !w.p.isOrderFile(name) {
				continue
			}

			// Settle delay: give the producer time to finish writing
			// before the file is read.
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.p.opts.SettleDelay):
			}

			if w.p.ledger.Contains(name) {
				continue
			}
			if orders := w.p.parseWatchedFile(evt.Name, name); len(orders) > 0 {
				w.p.notifyDiscovered(orders)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// The watch itself failed (directory removed, OS signal);
			// exit the loop and let the pipeline report STOPPED.
			w.p.logger.Error("file watcher error", "dir", w.dir, "err", err)
			return
		}
	}
}

// pollWatcher re-lists the directory on a fixed interval, for hosts
// where the native event facility is unavailable.
type pollWatcher struct {
	p   *Pipeline
	dir string
}

func (w *pollWatcher) name() string { return "poll" }

func (w *pollWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.p.opts.PollInterval)
	defer ticker.Stop()

	// prev holds the previous tick's filename set. Requiring a name to
	// be absent from prev as well as the ledger prevents acting twice
	// on a file observed mid-write across two ticks.
	prev := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		entries, err := os.ReadDir(w.dir)
		if err != nil {
			w.p.logger.Error("polling watched directory", "dir", w.dir, "err", err)
			return
		}

		current := make(map[string]struct{}, len(entries))
		var discovered []*domain.Order
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !w.p.isOrderFile(name) {
				continue
			}
			current[name] = struct{}{}

			if w.p.ledger.Contains(name) {
				continue
			}
			if _, seen := prev[name]; seen {
				continue
			}
			discovered = append(discovered, w.p.parseWatchedFile(filepath.Join(w.dir, name), name)...)
		}

		w.p.notifyDiscovered(discovered)
		prev = current
	}
}

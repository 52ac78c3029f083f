package ingest

import "sync"

// Ledger tracks the base names of files that have already produced at
// least one admitted order. A name in the ledger is never re-parsed by
// the scanner or the watcher until Reset is called.
//
// It is written from the watcher goroutine and read from the caller's
// goroutine, so all access goes through the mutex.
type Ledger struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{names: make(map[string]struct{})}
}

// Contains reports whether name has already been processed.
func (l *Ledger) Contains(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.names[name]
	return ok
}

// Add marks name as processed.
func (l *Ledger) Add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names[name] = struct{}{}
}

// Reset forgets every processed name. Files already seen become
// eligible for re-parsing on the next scan or watch event.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = make(map[string]struct{})
}

// Len returns the number of processed names.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.names)
}

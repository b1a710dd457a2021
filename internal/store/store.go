// Package store holds the in-memory ledger document and serializes every
// mutation to it.
package store

import (
	"sync"
	"time"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/models"
)

// Origin tells listeners where a change came from.
type Origin int

const (
	// OriginLocal is a mutation made through a ledger operation.
	OriginLocal Origin = iota
	// OriginRemote is a wholesale replace with a snapshot from durable storage.
	OriginRemote
	// OriginImport is a restore from a local backup file.
	OriginImport
)

func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginRemote:
		return "remote"
	case OriginImport:
		return "import"
	}
	return "unknown"
}

// Change describes a committed mutation.
type Change struct {
	Origin  Origin
	Version uint64
}

// Store owns the ledger document. All reads see a consistent state and all
// writes are applied atomically.
type Store struct {
	mu        sync.RWMutex
	data      models.AppData
	version   uint64
	ready     bool
	listeners map[int]func(Change)
	nextID    int
	now       func() time.Time
}

// New returns an empty store that rejects mutations until the first Replace.
func New() *Store {
	d := models.AppData{}
	d.FillMissing(models.AppData{})
	return &Store{
		data:      d,
		listeners: make(map[int]func(Change)),
		now:       time.Now,
	}
}

// NewWithData returns a ready store holding a copy of data.
func NewWithData(data models.AppData) *Store {
	s := New()
	s.data = data.Clone()
	s.data.FillMissing(models.AppData{})
	s.ready = true
	return s
}

// Ready reports whether the store has received its initial document.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Version is incremented on every committed change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() models.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// View runs fn against the live document under a read lock. fn must not
// retain or modify anything it is given.
func (s *Store) View(fn func(data *models.AppData)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Transaction runs fn against a private copy of the document and commits the
// copy if fn returns nil. A returned error leaves the store untouched, so no
// partial application is ever visible.
func (s *Store) Transaction(fn func(tx *Tx) error) error {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return apperrors.ErrStoreNotReady
	}
	working := s.data.Clone()
	tx := &Tx{Data: &working}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if !tx.dirty {
		s.mu.Unlock()
		return nil
	}
	s.data = working
	s.data.LastUpdated = timePtr(s.now().UTC())
	s.version++
	change := Change{Origin: OriginLocal, Version: s.version}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, change)
	return nil
}

// Replace swaps every collection for those in data in a single step. Missing
// collections are filled from defaults. Replace marks the store ready.
func (s *Store) Replace(data models.AppData, defaults models.AppData, origin Origin) {
	s.replace(nil, data, defaults, origin)
}

// ReplaceIf is Replace guarded by the store version: it swaps the document only
// when no change has been committed since expected was observed.
func (s *Store) ReplaceIf(expected uint64, data models.AppData, defaults models.AppData, origin Origin) bool {
	return s.replace(&expected, data, defaults, origin)
}

func (s *Store) replace(expected *uint64, data, defaults models.AppData, origin Origin) bool {
	next := data.Clone()
	next.FillMissing(defaults)

	s.mu.Lock()
	if expected != nil && s.version != *expected {
		s.mu.Unlock()
		return false
	}
	s.data = next
	s.ready = true
	s.version++
	change := Change{Origin: origin, Version: s.version}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, change)
	return true
}

// Subscribe registers fn to be called after every committed change, outside
// the store lock. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshotListeners() []func(Change) {
	out := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(Change), change Change) {
	for _, fn := range listeners {
		fn(change)
	}
}

func timePtr(t time.Time) *time.Time { return &t }

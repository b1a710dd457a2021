// Package syncer keeps the in-memory store and a persistence backend in step.
//
// Local mutations are saved after a debounce. Saves go through a single slot
// drained by one writer, so a newer state always supersedes an older unsent
// one and writes reach storage in order. Each save carries a revision one
// past the last revision seen; inbound snapshots at or below it are echoes of
// our own writes and are dropped, as are inbound snapshots that arrive while
// a local change is waiting to be written.
//
// Nothing is saved before the backend has answered once. If it cannot be
// reached at startup the store is served from the local cache while the
// subscription is retried; changes made on that copy are kept only when the
// backend turns out to hold the same revision the cache was taken from.
package syncer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/persistence"
	"github.com/cnds86/kiptrack/internal/store"
)

const (
	// DefaultDebounce is the quiet period after the last local change before a save.
	DefaultDebounce = time.Second
	// DefaultRetryInterval spaces subscription attempts while the backend is unreachable.
	DefaultRetryInterval = 5 * time.Second
)

// Options configures a Syncer.
type Options struct {
	Key      string
	Debounce time.Duration
	Defaults models.AppData
	Cache    *persistence.FileCache
	// RetryInterval spaces subscription attempts after a failed Start.
	RetryInterval time.Duration
	// OnLoad runs after every accepted inbound snapshot and after a cache
	// fallback, outside any lock.
	OnLoad func()
}

// Syncer mirrors one store to one backend key.
type Syncer struct {
	store   *store.Store
	backend persistence.Backend
	opts    Options
	log     *zap.SugaredLogger

	mu           sync.Mutex
	loaded       bool
	loadedCh     chan struct{}
	loadedOnce   sync.Once
	offline      bool
	offlineBase  uint64
	lastAccepted uint64
	knownVersion uint64
	dirty        bool
	pending      *models.AppData
	inFlight     bool
	timer        *time.Timer

	writeMu sync.Mutex
	wake    chan struct{}

	unsubscribeStore  func()
	unsubscribeRemote func()
	stop              context.CancelFunc
	writerDone        chan struct{}
	retryDone         chan struct{}
}

// New creates a Syncer. Nothing happens until Start.
func New(st *store.Store, backend persistence.Backend, opts Options) *Syncer {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	return &Syncer{
		store:    st,
		backend:  backend,
		opts:     opts,
		log:      logger.ForUser(opts.Key),
		loadedCh: make(chan struct{}),
		wake:     make(chan struct{}, 1),
	}
}

// Start subscribes to the store and the backend and launches the writer. If
// the backend cannot be subscribed the store is hydrated from the local cache
// (or defaults), the subscription is retried in the background and the error
// is returned. Saves stay blocked until the backend answers.
func (s *Syncer) Start(ctx context.Context) error {
	s.unsubscribeStore = s.store.Subscribe(s.onStoreChange)
	s.mu.Lock()
	if v := s.store.Version(); v > s.knownVersion {
		s.knownVersion = v
	}
	s.mu.Unlock()

	lifeCtx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	s.writerDone = make(chan struct{})
	go s.writer(lifeCtx)

	unsubscribe, err := s.backend.Subscribe(ctx, s.opts.Key, s.onRemote)
	if err != nil {
		s.log.Errorw("Failed to load ledger document",
			"retry_in", s.opts.RetryInterval,
			"error", err,
		)
		s.hydrateFromCache()
		s.retryDone = make(chan struct{})
		go s.resubscribe(lifeCtx)
		return err
	}
	s.mu.Lock()
	s.unsubscribeRemote = unsubscribe
	s.mu.Unlock()
	return nil
}

// resubscribe retries the backend subscription until it succeeds or the
// syncer is closed.
func (s *Syncer) resubscribe(ctx context.Context) {
	defer close(s.retryDone)
	ticker := time.NewTicker(s.opts.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		unsubscribe, err := s.backend.Subscribe(ctx, s.opts.Key, s.onRemote)
		if err != nil {
			s.log.Warnw("Backend still unavailable", "error", err)
			continue
		}
		s.mu.Lock()
		s.unsubscribeRemote = unsubscribe
		s.mu.Unlock()
		s.log.Info("Backend reachable again")
		return
	}
}

// Loaded is closed once the backend has answered, the first document has been
// applied and OnLoad has run. A cache fallback does not close it.
func (s *Syncer) Loaded() <-chan struct{} {
	return s.loadedCh
}

// Flush writes any unsaved local change now, skipping the debounce.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.stampLocked()
	s.mu.Unlock()
	return s.drain(ctx)
}

// Close stops the writer, any subscription retry and both subscriptions,
// then flushes. Changes made on a cache copy that never reconciled with the
// backend are not saved.
func (s *Syncer) Close(ctx context.Context) error {
	if s.stop != nil {
		s.stop()
		<-s.writerDone
		if s.retryDone != nil {
			<-s.retryDone
		}
	}
	s.mu.Lock()
	unsubscribe := s.unsubscribeRemote
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	if s.unsubscribeStore != nil {
		s.unsubscribeStore()
	}
	return s.Flush(ctx)
}

// onStoreChange runs after every committed store change, outside the store lock.
func (s *Syncer) onStoreChange(c store.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Version > s.knownVersion {
		s.knownVersion = c.Version
	}
	if c.Origin == store.OriginRemote {
		return
	}
	s.dirty = true
	s.scheduleLocked()
}

func (s *Syncer) scheduleLocked() {
	if s.timer == nil {
		s.timer = time.AfterFunc(s.opts.Debounce, s.onDebounce)
	} else {
		s.timer.Reset(s.opts.Debounce)
	}
}

func (s *Syncer) onDebounce() {
	s.mu.Lock()
	stamped := s.stampLocked()
	s.mu.Unlock()

	if stamped {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// stampLocked moves the current store state into the pending slot with the
// next revision. It reports whether anything was queued.
func (s *Syncer) stampLocked() bool {
	if !s.dirty || !s.loaded {
		return false
	}
	s.dirty = false
	snapshot := s.store.Snapshot()
	s.lastAccepted++
	snapshot.Revision = s.lastAccepted
	s.pending = &snapshot
	return true
}

func (s *Syncer) writer(ctx context.Context) {
	defer close(s.writerDone)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
		_ = s.drain(ctx)
	}
}

// drain saves the pending slot until it is empty. Only one drain runs at a
// time, which keeps writes in order. A failed document goes back into the
// slot unless a newer one replaced it, so the next drain retries it.
func (s *Syncer) drain(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for {
		s.mu.Lock()
		doc := s.pending
		s.pending = nil
		s.inFlight = doc != nil
		s.mu.Unlock()
		if doc == nil {
			return nil
		}

		err := s.backend.Save(ctx, s.opts.Key, *doc)

		s.mu.Lock()
		s.inFlight = false
		if err != nil && s.pending == nil {
			s.pending = doc
		}
		s.mu.Unlock()

		if err != nil {
			s.log.Errorw("Failed to save ledger document",
				"revision", doc.Revision,
				"error", err,
			)
			return err
		}
		s.log.Debugw("Ledger document saved", "revision", doc.Revision)
		if err := s.opts.Cache.Write(*doc); err != nil {
			s.log.Warnw("Failed to write local cache", "error", err)
		}
	}
}

// onRemote applies an inbound snapshot unless it is stale or a local change
// is waiting to be written. The first delivery latches the load gate even
// when it is dropped.
func (s *Syncer) onRemote(doc *models.AppData) {
	var data models.AppData
	if doc != nil {
		data = *doc
	}

	s.mu.Lock()
	first := !s.loaded
	if first && s.offline {
		s.mu.Unlock()
		s.reconcile(doc)
		return
	}
	var reason string
	switch {
	case !first && doc == nil:
		reason = "empty"
	case !first && data.Revision <= s.lastAccepted:
		reason = "stale"
	case s.dirty || s.pending != nil || s.inFlight:
		reason = "local write pending"
	}
	expected := s.knownVersion
	s.mu.Unlock()

	if reason == "" && !s.store.ReplaceIf(expected, data, s.opts.Defaults, store.OriginRemote) {
		reason = "raced by local change"
	}
	if reason != "" {
		s.log.Debugw("Dropped inbound snapshot", "revision", data.Revision, "reason", reason)
		if first {
			s.accept(data.Revision)
			s.signalLoaded()
		}
		return
	}
	s.accept(data.Revision)

	if first {
		s.log.Infow("Ledger document loaded", "revision", data.Revision, "found", doc != nil)
	}
	s.runOnLoad()
	if first {
		s.signalLoaded()
	}
}

func (s *Syncer) accept(revision uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if revision > s.lastAccepted {
		s.lastAccepted = revision
	}
	if !s.loaded {
		s.loaded = true
		// A change made before the load (an early import) is saved now.
		if s.dirty {
			s.scheduleLocked()
		}
	}
}

func (s *Syncer) runOnLoad() {
	if s.opts.OnLoad != nil {
		s.opts.OnLoad()
	}
}

// signalLoaded releases Loaded waiters once the first document and its
// OnLoad hook are both done.
func (s *Syncer) signalLoaded() {
	s.loadedOnce.Do(func() { close(s.loadedCh) })
}

// hydrateFromCache makes the store usable while the backend is unreachable.
// The load gate stays closed, so nothing is saved from this copy until
// reconcile decides what survives.
func (s *Syncer) hydrateFromCache() {
	doc, err := s.opts.Cache.Read()
	if err != nil {
		s.log.Warnw("Failed to read local cache", "error", err)
	}
	var data models.AppData
	if doc != nil {
		data = *doc
		s.log.Warnw("Serving local cache until the backend answers", "revision", data.Revision)
	}

	s.mu.Lock()
	expected := s.knownVersion
	s.mu.Unlock()

	if !s.store.ReplaceIf(expected, data, s.opts.Defaults, store.OriginRemote) {
		return
	}
	s.mu.Lock()
	s.offline = true
	s.offlineBase = data.Revision
	s.mu.Unlock()
	s.runOnLoad()
}

// reconcile handles the first backend answer after a cache fallback. Local
// changes win only when the backend still holds the revision the cache was
// taken from, or holds nothing. Otherwise they were made on a stale copy and
// the backend document replaces them.
func (s *Syncer) reconcile(doc *models.AppData) {
	var data models.AppData
	if doc != nil {
		data = *doc
	}

	s.mu.Lock()
	s.offline = false
	changed := s.dirty
	remoteNewer := doc != nil && data.Revision > s.offlineBase
	keepLocal := changed && !remoteNewer
	if !keepLocal {
		s.dirty = false
	}
	base := s.offlineBase
	s.mu.Unlock()

	switch {
	case keepLocal:
		s.log.Infow("Keeping changes made while offline",
			"cache_revision", base,
			"backend_revision", data.Revision,
		)
		if base > data.Revision {
			data.Revision = base
		}
	default:
		if changed {
			s.log.Warnw("Discarded changes made on a stale offline copy",
				"cache_revision", base,
				"backend_revision", data.Revision,
			)
		}
		s.store.Replace(data, s.opts.Defaults, store.OriginRemote)
	}

	s.accept(data.Revision)
	s.log.Infow("Ledger document loaded", "revision", data.Revision, "found", doc != nil)
	s.runOnLoad()
	s.signalLoaded()
}

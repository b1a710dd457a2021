package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/persistence"
	"github.com/cnds86/kiptrack/internal/store"
)

const testKey = "default_user"

// countingBackend wraps the memory backend and counts saves.
type countingBackend struct {
	*persistence.MemoryBackend
	saves       atomic.Int32
	failSave    atomic.Bool
	unreachable atomic.Bool
}

func newCountingBackend() *countingBackend {
	return &countingBackend{MemoryBackend: persistence.NewMemoryBackend()}
}

func (b *countingBackend) Save(ctx context.Context, key string, data models.AppData) error {
	if b.failSave.Load() {
		return errors.New("backend unavailable")
	}
	b.saves.Add(1)
	return b.MemoryBackend.Save(ctx, key, data)
}

func (b *countingBackend) Subscribe(ctx context.Context, key string, fn func(*models.AppData)) (func(), error) {
	if b.unreachable.Load() {
		return nil, errors.New("backend unreachable")
	}
	return b.MemoryBackend.Subscribe(ctx, key, fn)
}

func startSyncer(t *testing.T, backend persistence.Backend, opts Options) (*store.Store, *Syncer) {
	t.Helper()

	st := store.New()
	opts.Key = testKey
	opts.Defaults = models.DefaultData()
	if opts.Debounce == 0 {
		opts.Debounce = 10 * time.Millisecond
	}
	s := New(st, backend, opts)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	select {
	case <-s.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("document never loaded")
	}
	return st, s
}

func deposit(t *testing.T, st *store.Store, amount float64) {
	t.Helper()
	err := st.Transaction(func(tx *store.Tx) error {
		tx.AdjustBalance("acc_1", amount)
		return nil
	})
	if err != nil {
		t.Fatalf("mutation failed: %v", err)
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func storedBalance(t *testing.T, b persistence.Backend) (float64, uint64, bool) {
	t.Helper()
	doc, err := b.Load(context.Background(), testKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc == nil {
		return 0, 0, false
	}
	return doc.Accounts[0].Balance, doc.Revision, true
}

func TestLoadGate(t *testing.T) {
	t.Run("empty_backend_uses_defaults", func(t *testing.T) {
		backend := newCountingBackend()
		st, _ := startSyncer(t, backend, Options{})

		if !st.Ready() {
			t.Fatal("expected store ready after load")
		}
		if n := len(st.Snapshot().Currencies); n != len(models.DefaultCurrencies) {
			t.Errorf("expected default currencies, got %d", n)
		}
		if backend.saves.Load() != 0 {
			t.Error("loading must not write")
		}
	})

	t.Run("existing_document", func(t *testing.T) {
		backend := newCountingBackend()
		doc := models.DefaultData()
		doc.Accounts[0].Balance = 4200
		doc.Revision = 12
		if err := backend.MemoryBackend.Save(context.Background(), testKey, doc); err != nil {
			t.Fatal(err)
		}

		var loads atomic.Int32
		st, _ := startSyncer(t, backend, Options{OnLoad: func() { loads.Add(1) }})

		if st.Snapshot().Accounts[0].Balance != 4200 {
			t.Error("expected stored document in the store")
		}
		if loads.Load() != 1 {
			t.Errorf("expected OnLoad once, got %d", loads.Load())
		}
	})

}

// startOffline starts a syncer whose backend refuses the first subscription.
func startOffline(t *testing.T, backend *countingBackend, cache *persistence.FileCache) (*store.Store, *Syncer) {
	t.Helper()
	backend.unreachable.Store(true)

	st := store.New()
	s := New(st, backend, Options{
		Key:           testKey,
		Defaults:      models.DefaultData(),
		Cache:         cache,
		Debounce:      5 * time.Millisecond,
		RetryInterval: 10 * time.Millisecond,
	})
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected the subscribe error to be returned")
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return st, s
}

func writeCache(t *testing.T, balance float64, revision uint64) *persistence.FileCache {
	t.Helper()
	cache := persistence.NewFileCache(filepath.Join(t.TempDir(), "cache.json"))
	doc := models.DefaultData()
	doc.Accounts[0].Balance = balance
	doc.Revision = revision
	if err := cache.Write(doc); err != nil {
		t.Fatal(err)
	}
	return cache
}

func seedRemote(t *testing.T, backend *countingBackend, balance float64, revision uint64) {
	t.Helper()
	doc := models.DefaultData()
	doc.Accounts[0].Balance = balance
	doc.Revision = revision
	if err := backend.MemoryBackend.Save(context.Background(), testKey, doc); err != nil {
		t.Fatal(err)
	}
}

func isLoaded(s *Syncer) bool {
	select {
	case <-s.Loaded():
		return true
	default:
		return false
	}
}

func TestOfflineStart(t *testing.T) {
	t.Run("cache_served_without_saving", func(t *testing.T) {
		backend := newCountingBackend()
		seedRemote(t, backend, 999999, 40)
		st, s := startOffline(t, backend, writeCache(t, 77, 3))

		if !st.Ready() || st.Snapshot().Accounts[0].Balance != 77 {
			t.Fatal("expected the cached document to be served")
		}
		deposit(t, st, 5)
		time.Sleep(50 * time.Millisecond)

		if backend.saves.Load() != 0 {
			t.Fatalf("expected no save before the backend answered, got %d", backend.saves.Load())
		}
		if isLoaded(s) {
			t.Error("a cache fallback must not release Loaded")
		}
		if balance, revision, _ := storedBalance(t, backend); balance != 999999 || revision != 40 {
			t.Errorf("backend document changed: balance %v revision %d", balance, revision)
		}
	})

	t.Run("stale_offline_changes_discarded", func(t *testing.T) {
		backend := newCountingBackend()
		seedRemote(t, backend, 999999, 40)
		st, s := startOffline(t, backend, writeCache(t, 77, 3))
		deposit(t, st, 5)

		backend.unreachable.Store(false)
		eventually(t, "reconnect", func() bool { return isLoaded(s) })

		if got := st.Snapshot().Accounts[0].Balance; got != 999999 {
			t.Errorf("expected the backend document, got balance %v", got)
		}
		time.Sleep(30 * time.Millisecond)
		if backend.saves.Load() != 0 {
			t.Errorf("discarded changes must not be saved, got %d saves", backend.saves.Load())
		}

		deposit(t, st, 1)
		eventually(t, "save after reconnect", func() bool {
			_, revision, _ := storedBalance(t, backend)
			return revision == 41
		})
	})

	t.Run("offline_changes_kept_when_cache_current", func(t *testing.T) {
		backend := newCountingBackend()
		seedRemote(t, backend, 77, 40)
		st, s := startOffline(t, backend, writeCache(t, 77, 40))
		deposit(t, st, 5)

		backend.unreachable.Store(false)
		eventually(t, "reconnect", func() bool { return isLoaded(s) })
		eventually(t, "offline change saved", func() bool {
			balance, revision, _ := storedBalance(t, backend)
			return balance == 82 && revision == 41
		})
	})

	t.Run("no_data_keeps_offline_changes", func(t *testing.T) {
		backend := newCountingBackend()
		st, s := startOffline(t, backend, persistence.NewFileCache(""))
		deposit(t, st, 5)

		backend.unreachable.Store(false)
		eventually(t, "reconnect", func() bool { return isLoaded(s) })
		eventually(t, "offline change saved", func() bool {
			balance, revision, ok := storedBalance(t, backend)
			return ok && balance == 5 && revision == 1
		})
	})
}

func TestDebouncedSave(t *testing.T) {
	backend := newCountingBackend()
	st, _ := startSyncer(t, backend, Options{Debounce: 50 * time.Millisecond})

	for i := 0; i < 5; i++ {
		deposit(t, st, 10)
	}

	eventually(t, "save", func() bool { return backend.saves.Load() > 0 })
	time.Sleep(100 * time.Millisecond)
	if n := backend.saves.Load(); n != 1 {
		t.Errorf("expected one coalesced save, got %d", n)
	}
	balance, revision, ok := storedBalance(t, backend)
	if !ok || balance != 50 || revision != 1 {
		t.Errorf("expected balance 50 at revision 1, got %v at %d", balance, revision)
	}
}

func TestEchoSuppressed(t *testing.T) {
	backend := newCountingBackend()
	var loads atomic.Int32
	st, _ := startSyncer(t, backend, Options{OnLoad: func() { loads.Add(1) }})

	deposit(t, st, 10)
	eventually(t, "save", func() bool { return backend.saves.Load() == 1 })
	version := st.Version()
	time.Sleep(50 * time.Millisecond)

	if st.Version() != version {
		t.Error("our own write must not be applied back to the store")
	}
	if loads.Load() != 1 {
		t.Errorf("expected only the initial load, got %d", loads.Load())
	}
}

func TestRemoteChangeApplied(t *testing.T) {
	backend := newCountingBackend()
	var loads atomic.Int32
	st, _ := startSyncer(t, backend, Options{OnLoad: func() { loads.Add(1) }})

	other := models.DefaultData()
	other.Accounts[0].Balance = 999
	other.Revision = 5
	if err := backend.MemoryBackend.Save(context.Background(), testKey, other); err != nil {
		t.Fatal(err)
	}

	eventually(t, "remote snapshot", func() bool { return st.Snapshot().Accounts[0].Balance == 999 })
	eventually(t, "recurring trigger", func() bool { return loads.Load() == 2 })

	deposit(t, st, 1)
	eventually(t, "save", func() bool { return backend.saves.Load() == 1 })
	if _, revision, _ := storedBalance(t, backend); revision != 6 {
		t.Errorf("expected the next write to carry revision 6, got %d", revision)
	}
}

func TestInboundDroppedWhileWritePending(t *testing.T) {
	backend := newCountingBackend()
	st, s := startSyncer(t, backend, Options{Debounce: time.Hour})

	deposit(t, st, 25)

	other := models.DefaultData()
	other.Accounts[0].Balance = 999
	other.Revision = 50
	if err := backend.MemoryBackend.Save(context.Background(), testKey, other); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if got := st.Snapshot().Accounts[0].Balance; got != 25 {
		t.Fatalf("expected the local change to win, got balance %v", got)
	}

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if balance, _, _ := storedBalance(t, backend); balance != 25 {
		t.Errorf("expected flushed balance 25, got %v", balance)
	}
}

func TestFlush(t *testing.T) {
	t.Run("writes_immediately", func(t *testing.T) {
		backend := newCountingBackend()
		st, s := startSyncer(t, backend, Options{Debounce: time.Hour})

		deposit(t, st, 5)
		if err := s.Flush(context.Background()); err != nil {
			t.Fatalf("flush: %v", err)
		}

		if backend.saves.Load() != 1 {
			t.Errorf("expected one save, got %d", backend.saves.Load())
		}
	})

	t.Run("nothing_to_write", func(t *testing.T) {
		backend := newCountingBackend()
		_, s := startSyncer(t, backend, Options{})

		if err := s.Flush(context.Background()); err != nil {
			t.Fatalf("flush: %v", err)
		}
		if backend.saves.Load() != 0 {
			t.Error("expected no save")
		}
	})

	t.Run("failed_save_is_retried", func(t *testing.T) {
		backend := newCountingBackend()
		cache := persistence.NewFileCache(filepath.Join(t.TempDir(), "cache.json"))
		st, s := startSyncer(t, backend, Options{Debounce: time.Hour, Cache: cache})

		backend.failSave.Store(true)
		deposit(t, st, 5)
		if err := s.Flush(context.Background()); err == nil {
			t.Fatal("expected the save error")
		}

		backend.failSave.Store(false)
		if err := s.Flush(context.Background()); err != nil {
			t.Fatalf("retry flush: %v", err)
		}
		if balance, _, ok := storedBalance(t, backend); !ok || balance != 5 {
			t.Errorf("expected retried document, got %v", balance)
		}
		cached, err := cache.Read()
		if err != nil || cached == nil || cached.Accounts[0].Balance != 5 {
			t.Error("expected the cache to mirror the saved document")
		}
	})
}

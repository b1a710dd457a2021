package store

import (
	"errors"
	"testing"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/models"
)

func TestTransaction(t *testing.T) {
	t.Run("commits_on_nil_error", func(t *testing.T) {
		s := NewWithData(models.DefaultData())
		err := s.Transaction(func(tx *Tx) error {
			if !tx.AdjustBalance("acc_1", 500) {
				t.Fatal("expected acc_1 to resolve")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		snap := s.Snapshot()
		if snap.Accounts[0].Balance != 500 {
			t.Errorf("expected balance 500, got %v", snap.Accounts[0].Balance)
		}
		if snap.LastUpdated == nil {
			t.Error("expected lastUpdated to be stamped")
		}
		if s.Version() != 1 {
			t.Errorf("expected version 1, got %d", s.Version())
		}
	})

	t.Run("rolls_back_on_error", func(t *testing.T) {
		s := NewWithData(models.DefaultData())
		boom := errors.New("boom")
		err := s.Transaction(func(tx *Tx) error {
			tx.AdjustBalance("acc_1", 500)
			tx.PrependTransaction(models.Transaction{ID: "t1"})
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		snap := s.Snapshot()
		if snap.Accounts[0].Balance != 0 || len(snap.Transactions) != 0 {
			t.Error("failed transaction leaked partial state")
		}
		if s.Version() != 0 {
			t.Errorf("expected version 0, got %d", s.Version())
		}
	})

	t.Run("read_only_does_not_bump_version", func(t *testing.T) {
		s := NewWithData(models.DefaultData())
		_ = s.Transaction(func(tx *Tx) error {
			_, _ = tx.Account("acc_1")
			return nil
		})
		if s.Version() != 0 {
			t.Errorf("expected version 0, got %d", s.Version())
		}
	})

	t.Run("not_ready_rejects", func(t *testing.T) {
		s := New()
		err := s.Transaction(func(tx *Tx) error { return nil })
		if !errors.Is(err, apperrors.ErrStoreNotReady) {
			t.Fatalf("expected STORE_NOT_READY, got %v", err)
		}
	})

	t.Run("adjust_unknown_account", func(t *testing.T) {
		s := NewWithData(models.DefaultData())
		_ = s.Transaction(func(tx *Tx) error {
			if tx.AdjustBalance("missing", 10) {
				t.Error("expected false for missing account")
			}
			return nil
		})
		if s.Version() != 0 {
			t.Error("no-op adjustment must not commit")
		}
	})
}

func TestReplace(t *testing.T) {
	s := New()
	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.Replace(models.AppData{Accounts: []models.Account{{ID: "x", Name: "Imported"}}}, models.DefaultData(), OriginRemote)

	if !s.Ready() {
		t.Fatal("expected store to be ready after replace")
	}
	snap := s.Snapshot()
	if len(snap.Accounts) != 1 || snap.Accounts[0].ID != "x" {
		t.Errorf("expected replaced accounts, got %+v", snap.Accounts)
	}
	if len(snap.Currencies) != len(models.DefaultCurrencies) {
		t.Error("missing currencies should fall back to defaults")
	}
	if len(changes) != 1 || changes[0].Origin != OriginRemote {
		t.Fatalf("expected one remote change, got %+v", changes)
	}

	unsubscribe()
	s.Replace(models.DefaultData(), models.DefaultData(), OriginRemote)
	if len(changes) != 1 {
		t.Error("listener called after unsubscribe")
	}
}

func TestCategoryLookupIsTyped(t *testing.T) {
	s := NewWithData(models.DefaultData())
	_ = s.Transaction(func(tx *Tx) error {
		if _, ok := tx.Category(models.TransactionTypeIncome, "exp_1"); ok {
			t.Error("expense id must not resolve in the income collection")
		}
		if _, ok := tx.Category(models.TransactionTypeExpense, "exp_1"); !ok {
			t.Error("expected exp_1 in the expense collection")
		}
		return nil
	})
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewWithData(models.DefaultData())
	snap := s.Snapshot()
	snap.Accounts[0].Balance = 999
	if s.Snapshot().Accounts[0].Balance != 0 {
		t.Error("snapshot aliases store state")
	}
}

func TestReplaceIf(t *testing.T) {
	s := NewWithData(models.DefaultData())
	v := s.Version()

	_ = s.Transaction(func(tx *Tx) error {
		tx.AdjustBalance("acc_1", 10)
		return nil
	})
	if s.ReplaceIf(v, models.AppData{}, models.DefaultData(), OriginRemote) {
		t.Fatal("expected replace to be refused after a newer commit")
	}
	if s.Snapshot().Accounts[0].Balance != 10 {
		t.Error("refused replace must leave the document untouched")
	}

	if !s.ReplaceIf(s.Version(), models.AppData{}, models.DefaultData(), OriginRemote) {
		t.Fatal("expected replace at the current version to succeed")
	}
	if s.Snapshot().Accounts[0].Balance != 0 {
		t.Error("expected document replaced")
	}
}

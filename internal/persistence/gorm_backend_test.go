package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/testutil"
)

func TestGormBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b := NewGormBackend(db, time.Second)

		doc, err := b.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, doc)

		data := models.DefaultData()
		data.Revision = 1
		data.Transactions = []models.Transaction{{ID: "tx_1", AccountID: "acc_1", Type: models.TransactionTypeExpense, Amount: 10, Date: "2024-03-01"}}
		require.NoError(t, b.Save(ctx, "alice", data))

		doc, err = b.Load(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, data.Transactions, doc.Transactions)
		assert.Equal(t, uint64(1), doc.Revision)
	})

	t.Run("save_overwrites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b := NewGormBackend(db, time.Second)

		data := models.DefaultData()
		data.Revision = 1
		require.NoError(t, b.Save(ctx, "alice", data))
		data.Revision = 2
		data.Accounts = data.Accounts[:1]
		require.NoError(t, b.Save(ctx, "alice", data))

		doc, err := b.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), doc.Revision)
		assert.Len(t, doc.Accounts, 1)
	})

	t.Run("subscribe_sees_other_writer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reader := NewGormBackend(db, 10*time.Millisecond)
		writer := NewGormBackend(db, 10*time.Millisecond)
		got := make(collector, 8)

		unsubscribe, err := reader.Subscribe(ctx, "alice", got.fn)
		require.NoError(t, err)
		defer unsubscribe()
		assert.Nil(t, got.next(t))

		data := models.DefaultData()
		data.Revision = 7
		require.NoError(t, writer.Save(ctx, "alice", data))

		assert.Equal(t, uint64(7), got.next(t).Revision)
	})
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnds86/kiptrack/internal/app"
	"github.com/cnds86/kiptrack/internal/config"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/persistence"
)

const testUserKey = "cli_test"

// memoryOpener opens every command against the same in-process backend, so
// state carries over between invocations like it would with a real database.
func memoryOpener(backend *persistence.MemoryBackend) opener {
	return func(ctx context.Context) (*app.App, error) {
		cfg := &config.Config{
			UserKey:          testUserKey,
			ResolutionPolicy: string(models.PolicyWarnAndSkip),
			StorageBackend:   config.BackendMemory,
			SaveDebounce:     10 * time.Millisecond,
		}
		return app.Open(ctx, cfg, backend)
	}
}

func execute(t *testing.T, backend *persistence.MemoryBackend, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(memoryOpener(backend))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func stored(t *testing.T, backend *persistence.MemoryBackend) models.AppData {
	t.Helper()
	doc, err := backend.Load(context.Background(), testUserKey)
	require.NoError(t, err)
	require.NotNil(t, doc, "expected a saved document")
	return *doc
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd(memoryOpener(persistence.NewMemoryBackend()))

	assert.Equal(t, "kiptrack", cmd.Use)
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"export", "export-csv", "import", "process-recurring", "set-base"}, names)
}

func TestExport(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		out, err := execute(t, persistence.NewMemoryBackend(), "export")
		require.NoError(t, err)

		var backup map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(out), &backup))
		assert.Contains(t, backup, "accounts")
		assert.Contains(t, backup, "currencies")
		assert.NotContains(t, backup, "notifications")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "backup.json")

		_, err := execute(t, persistence.NewMemoryBackend(), "export", "-o", path)
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"expenseCategories"`)
	})
}

func TestImport(t *testing.T) {
	t.Run("replaces present collections and saves", func(t *testing.T) {
		backend := persistence.NewMemoryBackend()
		path := writeFile(t, "backup.json",
			`{"accounts":[{"id":"acc_x","name":"Savings","type":"BANK","balance":500,"currencyCode":"LAK"}]}`)

		out, err := execute(t, backend, "import", path)
		require.NoError(t, err)
		assert.Contains(t, out, "restored: accounts")

		doc := stored(t, backend)
		require.Len(t, doc.Accounts, 1)
		assert.Equal(t, "acc_x", doc.Accounts[0].ID)
		assert.NotEmpty(t, doc.ExpenseCategories, "collections missing from the file are kept")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, "broken.json", `{"accounts":[`)

		_, err := execute(t, persistence.NewMemoryBackend(), "import", path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, persistence.NewMemoryBackend(), "import", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("requires one argument", func(t *testing.T) {
		_, err := execute(t, persistence.NewMemoryBackend(), "import")
		assert.Error(t, err)
	})
}

func TestExportCSV(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	path := writeFile(t, "backup.json", `{"transactions":[
		{"id":"txn_1","accountId":"acc_1","type":"EXPENSE","amount":120,"categoryId":"exp_1","date":"2024-03-01","note":"Rice"}
	]}`)
	_, err := execute(t, backend, "import", path)
	require.NoError(t, err)

	out, err := execute(t, backend, "export-csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "date,type,amount"))
	assert.Contains(t, lines[1], "Rice")
}

func TestProcessRecurring(t *testing.T) {
	t.Run("records due rules", func(t *testing.T) {
		backend := persistence.NewMemoryBackend()
		path := writeFile(t, "backup.json", `{"recurringTransactions":[
			{"id":"rec_1","accountId":"acc_1","categoryId":"exp_4","type":"EXPENSE","amount":100,"note":"Internet","frequency":"MONTHLY","nextDueDate":"2099-01-15"}
		]}`)
		_, err := execute(t, backend, "import", path)
		require.NoError(t, err)

		out, err := execute(t, backend, "process-recurring", "--today", "2099-02-01")
		require.NoError(t, err)
		assert.Contains(t, out, "recorded 1 transaction(s)")

		doc := stored(t, backend)
		require.Len(t, doc.RecurringTransactions, 1)
		assert.Equal(t, "2099-02-15", doc.RecurringTransactions[0].NextDueDate)
		require.NotEmpty(t, doc.Transactions)
		assert.Equal(t, "2099-01-15", doc.Transactions[0].Date)
	})

	t.Run("rejects bad date", func(t *testing.T) {
		_, err := execute(t, persistence.NewMemoryBackend(), "process-recurring", "--today", "01/02/2099")
		assert.Error(t, err)
	})
}

func TestSetBase(t *testing.T) {
	t.Run("known currency", func(t *testing.T) {
		backend := persistence.NewMemoryBackend()

		out, err := execute(t, backend, "set-base", "usd")
		require.NoError(t, err)
		assert.Contains(t, out, "USD")

		base, ok := models.FindBaseCurrency(stored(t, backend).Currencies)
		require.True(t, ok)
		assert.Equal(t, "USD", base.Code)
	})

	t.Run("unknown currency", func(t *testing.T) {
		_, err := execute(t, persistence.NewMemoryBackend(), "set-base", "XYZ")
		assert.Error(t, err)
	})
}

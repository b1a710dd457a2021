package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnds86/kiptrack/internal/models"
)

func TestFileCache(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		c := NewFileCache(filepath.Join(t.TempDir(), "cache.json"))

		doc, err := c.Read()
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("write_then_read", func(t *testing.T) {
		c := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache.json"))
		data := models.DefaultData()
		data.Revision = 9

		require.NoError(t, c.Write(data))
		doc, err := c.Read()
		require.NoError(t, err)

		require.NotNil(t, doc)
		assert.Equal(t, uint64(9), doc.Revision)
		assert.Equal(t, data.Accounts, doc.Accounts)
	})

	t.Run("disabled", func(t *testing.T) {
		c := NewFileCache("")

		assert.False(t, c.Enabled())
		assert.NoError(t, c.Write(models.DefaultData()))
		doc, err := c.Read()
		assert.NoError(t, err)
		assert.Nil(t, doc)
	})
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "users/alice.json", ObjectName("users", "alice"))
	assert.Equal(t, "alice.json", ObjectName("", "alice"))
}

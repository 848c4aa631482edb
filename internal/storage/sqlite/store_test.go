package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/autoplan/internal/storage"
	"github.com/julianstephens/autoplan/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "autoplan.db"))
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return newTestStore(t)
	})
}

func TestLoad_NotInitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, s.Load(), storage.ErrNotInitialized)
}

func TestLoad_AfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "autoplan.db")
	s := NewStore(path)
	require.NoError(t, s.Init())
	require.NoError(t, s.Close())

	reopened := NewStore(path)
	require.NoError(t, reopened.Load())
	defer reopened.Close()

	settings, err := reopened.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "09:00", settings.DayStart)
	assert.Equal(t, path, reopened.GetConfigPath())
}

func TestInit_IsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Init())
}

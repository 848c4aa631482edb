package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// newDB creates a database holding a single row with the given value.
func newDB(t *testing.T, value int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autoplan.db")
	writeValue(t, path, value)
	return path
}

func writeValue(t *testing.T, path string, value int) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT OR REPLACE INTO kv (k, v) VALUES ('x', ?)`, value)
	require.NoError(t, err)
}

func readValue(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var v int
	require.NoError(t, db.QueryRow(`SELECT v FROM kv WHERE k = 'x'`).Scan(&v))
	return v
}

// ticking returns a clock advancing one minute per call.
func ticking() func() time.Time {
	now := base
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestCreate(t *testing.T) {
	dbPath := newDB(t, 7)
	mgr := NewManager(dbPath).WithClock(func() time.Time { return base })

	snap, err := mgr.Create()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(dbPath), DirName, "autoplan-20260302-080000.db"), snap.Path)
	assert.True(t, snap.TakenAt.Equal(base))
	assert.Positive(t, snap.Size)
	assert.Equal(t, 7, readValue(t, snap.Path))
}

func TestCreateSameSecondGetsCounter(t *testing.T) {
	mgr := NewManager(newDB(t, 1)).WithClock(func() time.Time { return base })

	first, err := mgr.Create()
	require.NoError(t, err)
	second, err := mgr.Create()
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, "autoplan-20260302-080000-1.db", filepath.Base(second.Path))

	snaps, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	_, err := mgr.Create()
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestListIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(newDB(t, 1)).WithClock(ticking())
	_, err := mgr.Create()
	require.NoError(t, err)
	_, err = mgr.Create()
	require.NoError(t, err)

	for _, name := range []string{"notes.txt", "autoplan-garbage.db", "autoplan-20260302-0800.db"} {
		require.NoError(t, os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600))
	}

	snaps, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].TakenAt.After(snaps[1].TakenAt), "newest first")
}

func TestListMissingDirectory(t *testing.T) {
	snaps, err := NewManager(filepath.Join(t.TempDir(), "autoplan.db")).List()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestCreatePrunesToKeep(t *testing.T) {
	mgr := NewManager(newDB(t, 1)).WithClock(ticking()).WithKeep(3)

	var last Snapshot
	for i := 0; i < 5; i++ {
		snap, err := mgr.Create()
		require.NoError(t, err)
		last = snap
	}

	snaps, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, last.Path, snaps[0].Path)
}

func TestPruneRejectsZero(t *testing.T) {
	assert.Error(t, NewManager(newDB(t, 1)).Prune(0))
}

func TestRestore(t *testing.T) {
	dbPath := newDB(t, 1)
	mgr := NewManager(dbPath).WithClock(ticking())

	snap, err := mgr.Create()
	require.NoError(t, err)

	writeValue(t, dbPath, 2)
	previous, err := mgr.Restore(snap.Path)
	require.NoError(t, err)

	assert.Equal(t, 1, readValue(t, dbPath))
	require.NotEmpty(t, previous.Path)
	assert.Equal(t, 2, readValue(t, previous.Path))
	_, err = os.Stat(dbPath + ".restore.tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := newDB(t, 1)
	bogus := filepath.Join(t.TempDir(), "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not sqlite, just some text padding the header out"), 0600))

	_, err := NewManager(dbPath).Restore(bogus)
	assert.Error(t, err)
	assert.Equal(t, 1, readValue(t, dbPath))
}

func TestRestoreMissingFile(t *testing.T) {
	_, err := NewManager(newDB(t, 1)).Restore(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}

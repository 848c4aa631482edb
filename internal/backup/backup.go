// Package backup keeps timestamped snapshots of the SQLite database next to it.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/logger"
)

const (
	// DefaultKeep is how many snapshots survive a prune.
	DefaultKeep = 14
	DirName     = "backups"

	stampLayout = "20060102-150405"
	suffix      = ".db"
)

var (
	prefix = constants.AppName + "-"

	ErrNoDatabase = errors.New("database does not exist")
)

// Snapshot describes one backup file.
type Snapshot struct {
	Path    string
	TakenAt time.Time
	Size    int64
}

type Manager struct {
	dbPath string
	dir    string
	keep   int
	clock  func() time.Time
}

// NewManager returns a manager storing snapshots in a "backups" directory
// beside dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		keep:   DefaultKeep,
		clock:  time.Now,
	}
}

// WithClock replaces the clock used to name snapshots.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	m.clock = clock
	return m
}

// WithKeep sets the retention used by Create.
func (m *Manager) WithKeep(keep int) *Manager {
	m.keep = keep
	return m
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a consistent copy of the database and prunes old snapshots.
func (m *Manager) Create() (Snapshot, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	takenAt := m.clock().UTC().Truncate(time.Second)
	path, err := m.freeName(takenAt)
	if err != nil {
		return Snapshot{}, err
	}
	if err := vacuumInto(m.dbPath, path); err != nil {
		return Snapshot{}, fmt.Errorf("failed to back up database: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Snapshot{}, err
	}
	logger.Info("created backup", "path", path, "bytes", info.Size())

	if err := m.Prune(m.keep); err != nil {
		logger.Warn("failed to prune backups", "error", err)
	}
	return Snapshot{Path: path, TakenAt: takenAt, Size: info.Size()}, nil
}

func (m *Manager) freeName(at time.Time) (string, error) {
	base := prefix + at.Format(stampLayout)
	path := filepath.Join(m.dir, base+suffix)
	for n := 1; fileExists(path); n++ {
		if n > 99 {
			return "", fmt.Errorf("failed to find a free backup name for %s", base)
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s-%d%s", base, n, suffix))
	}
	return path, nil
}

// List returns snapshots newest first. Files that do not follow the naming
// scheme are ignored.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snaps := []Snapshot{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		takenAt, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Path:    filepath.Join(m.dir, entry.Name()),
			TakenAt: takenAt,
			Size:    info.Size(),
		})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].TakenAt.Equal(snaps[j].TakenAt) {
			return snaps[i].TakenAt.After(snaps[j].TakenAt)
		}
		return snaps[i].Path > snaps[j].Path
	})
	return snaps, nil
}

// parseName extracts the timestamp from "autoplan-YYYYMMDD-HHMMSS[-N].db".
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	if len(stamp) > len(stampLayout) {
		if stamp[len(stampLayout)] != '-' {
			return time.Time{}, false
		}
		stamp = stamp[:len(stampLayout)]
	}
	t, err := time.Parse(stampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Prune removes all but the newest keep snapshots.
func (m *Manager) Prune(keep int) error {
	if keep < 1 {
		return fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for _, s := range snaps[min(keep, len(snaps)):] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove backup %s: %w", s.Path, err)
		}
		logger.Debug("removed backup", "path", s.Path)
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database, if any, is snapshotted first and that snapshot is returned.
func (m *Manager) Restore(path string) (Snapshot, error) {
	if !fileExists(path) {
		return Snapshot{}, fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verify(path); err != nil {
		return Snapshot{}, fmt.Errorf("backup file is not a valid database: %w", err)
	}

	tmp := m.dbPath + ".restore.tmp"
	_ = os.Remove(tmp)
	if err := vacuumInto(path, tmp); err != nil {
		_ = os.Remove(tmp)
		return Snapshot{}, fmt.Errorf("failed to copy backup: %w", err)
	}

	var previous Snapshot
	if fileExists(m.dbPath) {
		snap, err := m.Create()
		if err != nil {
			_ = os.Remove(tmp)
			return Snapshot{}, fmt.Errorf("failed to back up current database: %w", err)
		}
		previous = snap
	}

	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return Snapshot{}, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("restored database", "from", path, "previous", previous.Path)
	return previous, nil
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("VACUUM INTO ?", dst)
	return err
}

func verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

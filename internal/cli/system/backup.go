package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/autoplan/internal/backup"
	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/storage/sqlite"
)

var errBackupUnsupported = errors.New("backups are only supported for SQLite storage")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the SQLite database."`
	List    BackupListCmd    `cmd:"" help:"List database snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, errBackupUnsupported
	}
	return backup.NewManager(ctx.Store.GetConfigPath()).WithClock(ctx.Clock), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snap, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("Backup created: %s\n", filepath.Base(snap.Path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("%d backups (keeping most recent %d):\n", len(snaps), backup.DefaultKeep)
	for _, s := range snaps {
		ctx.Printf("  %s  %s  %s\n",
			cli.TimeStyle.Render(s.TakenAt.Format("2006-01-02 15:04:05")),
			filepath.Base(s.Path),
			cli.MutedStyle.Render(fmt.Sprintf("(%.1f KB)", float64(s.Size)/1024)))
	}
	ctx.Printf("Backup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Path, or file name inside the backup directory, of the snapshot."`
	Yes  bool   `short:"y" help:"Restore without prompting."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.File
	if !filepath.IsAbs(path) {
		if candidate := filepath.Join(mgr.Dir(), path); fileExists(candidate) {
			path = candidate
		}
	}
	if !fileExists(path) {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Replace the current database with %s?", filepath.Base(path)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("failed to close database before restore", "error", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if previous.Path != "" {
		ctx.Printf("Previous database saved as %s\n", filepath.Base(previous.Path))
	}
	ctx.Printf("Restored %s\n", filepath.Base(path))
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

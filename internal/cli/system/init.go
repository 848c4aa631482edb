package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/autoplan/internal/backup"
	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Back up and delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force is only supported for SQLite storage")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			snap, err := backup.NewManager(dbPath).WithClock(ctx.Clock).Create()
			if err != nil {
				return fmt.Errorf("failed to back up existing database: %w", err)
			}
			ctx.Printf("Backed up existing database to: %s\n", snap.Path)
			// Close first to release the file handle
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized autoplan storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

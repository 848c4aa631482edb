// Package migrations embeds the schema for each storage backend and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/julianstephens/autoplan/internal/logger"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Backend selects the migration set and goose dialect.
type Backend struct {
	Dir     string
	Dialect goose.Dialect
}

var (
	SQLite   = Backend{Dir: "sqlite", Dialect: goose.DialectSQLite3}
	Postgres = Backend{Dir: "postgres", Dialect: goose.DialectPostgres}
)

func (b Backend) provider(db *sql.DB) (*goose.Provider, error) {
	sub, err := fs.Sub(FS, b.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", b.Dir, err)
	}
	p, err := goose.NewProvider(b.Dialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, b Backend) error {
	p, err := b.provider(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("applied migration", "backend", b.Dir, "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Validate fails when the database schema is behind the embedded migrations.
func Validate(ctx context.Context, db *sql.DB, b Backend) error {
	p, err := b.provider(db)
	if err != nil {
		return err
	}
	pending, err := p.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}
	if pending {
		return fmt.Errorf("database schema is out of date, run 'autoplan init' to migrate")
	}
	return nil
}

// Package clitest builds command contexts backed by a temporary SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/config"
	"github.com/julianstephens/autoplan/internal/storage/sqlite"
)

// Clock is the fixed time every test context reports, a Monday morning.
var Clock = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// NewContext returns an initialized context whose output is captured in the buffer.
// Confirmation prompts answer with confirm.
func NewContext(t *testing.T, confirm bool) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "autoplan.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	var out bytes.Buffer
	ctx := cli.NewContext(store, config.Overrides{})
	ctx.Out = &out
	ctx.Confirm = func(string) (bool, error) { return confirm, nil }
	ctx.Clock = func() time.Time { return Clock }
	return ctx, &out
}

package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/cli/plans"
	"github.com/julianstephens/autoplan/internal/cli/settings"
	"github.com/julianstephens/autoplan/internal/cli/system"
	"github.com/julianstephens/autoplan/internal/cli/tasks"
	"github.com/julianstephens/autoplan/internal/config"
	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/errors"
	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL URL." default:"${config_path}"`
	Backend string `help:"Storage backend (sqlite|postgres)." enum:"sqlite,postgres" default:"sqlite" env:"AUTOPLAN_BACKEND"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize autoplan storage."`
	Plan     plans.PlanCmd        `cmd:"" help:"Generate a plan for the planning window."`
	Day      plans.DayCmd         `cmd:"" help:"Show the saved plan for a day."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   system.BackupCmd     `cmd:"" help:"Manage SQLite database snapshots."`
	Task     struct {
		Add      tasks.TaskAddCmd      `cmd:"" help:"Add a new task."`
		List     tasks.TaskListCmd     `cmd:"" help:"List tasks."`
		Complete tasks.TaskCompleteCmd `cmd:"" help:"Mark a task as completed."`
		Delete   tasks.TaskDeleteCmd   `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Automatic day planner for tasks with durations, deadlines and recurrence"),
		kong.UsageOnError(),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	configDir, err := configDirFor(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("starting", "command", ctx.Command(), "backend", CLI.Backend)

	overrides, err := config.Load(configDir)
	if err != nil {
		errors.Fatal(err)
	}

	var store storage.Provider
	command := ctx.Command()
	if !strings.HasPrefix(command, "keyring") {
		store, err = cli.OpenStore(CLI.Backend, CLI.Config, overrides)
		if err != nil {
			errors.Fatal(err)
		}
		if command != "init" {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	appCtx := cli.NewContext(store, overrides)
	err = ctx.Run(appCtx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("failed to close storage", "error", cerr)
		}
	}
	errors.Fatal(err)
}

// configDirFor returns the directory holding the log and dotenv files.
func configDirFor(configPath string) (string, error) {
	if strings.HasPrefix(configPath, "postgres://") || strings.HasPrefix(configPath, "postgresql://") {
		configPath = constants.DefaultConfigPath
	}
	path, err := cli.ExpandHome(configPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

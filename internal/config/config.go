// Package config layers dotenv and environment overrides on top of stored settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/utils"
)

// Overrides holds values read from the dotenv file and the process environment.
// Empty fields leave the stored setting untouched.
type Overrides struct {
	DayStart       string `env:"DAY_START"`
	DayEnd         string `env:"DAY_END"`
	Timezone       string `env:"TIMEZONE"`
	Scope          string `env:"SCHEDULE_SCOPE"`
	Strategy       string `env:"PRIORITIZATION_STRATEGY"`
	Organization   string `env:"DAY_ORGANIZATION"`
	Overdue        string `env:"OVERDUE_HANDLING"`
	Heuristic      string `env:"PLACEMENT_HEURISTIC"`
	AllowSplitting string `env:"ALLOW_SPLITTING"`

	// DBConnection is a PostgreSQL connection string used instead of the keyring.
	DBConnection string `env:"DB_CONNECTION"`
}

// EnvFilePath returns the dotenv file location for a config directory.
func EnvFilePath(configDir string) string {
	return filepath.Join(configDir, constants.DefaultEnvFileName)
}

// Load reads the optional dotenv file in configDir and the process environment.
// Environment variables beat the file.
func Load(configDir string) (Overrides, error) {
	return load(EnvFilePath(configDir), env.ToMap(os.Environ()))
}

func load(path string, environ map[string]string) (Overrides, error) {
	merged, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Overrides{}, fmt.Errorf("reading %s: %w", path, err)
		}
		merged = make(map[string]string)
	}
	for k, v := range environ {
		merged[k] = v
	}

	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{
		Environment: merged,
		Prefix:      constants.EnvPrefix,
	}); err != nil {
		return Overrides{}, fmt.Errorf("parsing configuration: %w", err)
	}
	return o, nil
}

// Apply returns s with every non-empty override applied. The result is
// defaulted and validated.
func (o Overrides) Apply(s models.Settings) (models.Settings, error) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.DayStart, o.DayStart)
	set(&s.DayEnd, o.DayEnd)
	set(&s.Timezone, o.Timezone)
	if o.Scope != "" {
		s.Scope = models.ScheduleScope(o.Scope)
	}
	if o.Strategy != "" {
		s.Strategy = models.PrioritizationStrategy(o.Strategy)
	}
	if o.Organization != "" {
		s.Organization = models.DayOrganization(o.Organization)
	}
	if o.Overdue != "" {
		s.Overdue = models.OverdueTaskHandling(o.Overdue)
	}
	if o.Heuristic != "" {
		s.Heuristic = models.PlacementHeuristic(o.Heuristic)
	}
	if o.AllowSplitting != "" {
		b, err := strconv.ParseBool(o.AllowSplitting)
		if err != nil {
			return models.Settings{}, fmt.Errorf("invalid %sALLOW_SPLITTING %q: %w", constants.EnvPrefix, o.AllowSplitting, err)
		}
		s.AllowSplitting = b
	}

	models.ApplyDefaultSettings(&s)
	if !utils.ValidateTimeFormat(s.DayStart) {
		return models.Settings{}, fmt.Errorf("invalid day start %q, expected HH:MM", s.DayStart)
	}
	if !utils.ValidateTimeFormat(s.DayEnd) {
		return models.Settings{}, fmt.Errorf("invalid day end %q, expected HH:MM", s.DayEnd)
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return models.Settings{}, fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	if err := s.Validate(); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

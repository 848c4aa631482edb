package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/autoplan/internal/config"
	"github.com/julianstephens/autoplan/internal/keyring"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
	"github.com/julianstephens/autoplan/internal/storage/postgres"
	"github.com/julianstephens/autoplan/internal/storage/sqlite"
	"github.com/julianstephens/autoplan/internal/utils"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Context is shared by every command.
type Context struct {
	Store     storage.Provider
	Overrides config.Overrides
	Out       io.Writer
	// Confirm asks a yes/no question. Tests replace it.
	Confirm func(title string) (bool, error)
	// Clock returns the current time. Tests replace it.
	Clock func() time.Time
}

func NewContext(store storage.Provider, overrides config.Overrides) *Context {
	return &Context{
		Store:     store,
		Overrides: overrides,
		Out:       os.Stdout,
		Confirm:   confirmPrompt,
		Clock:     time.Now,
	}
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Settings returns stored settings with dotenv and environment overrides applied.
func (c *Context) Settings() (models.Settings, error) {
	stored, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return c.Overrides.Apply(stored)
}

// Now returns the current time in the settings timezone.
func (c *Context) Now(settings models.Settings) (time.Time, *time.Location, error) {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return c.Clock().In(loc), loc, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// OpenStore picks the storage backend. A PostgreSQL connection string comes
// from the --config value, AUTOPLAN_DB_CONNECTION, or the OS keyring, in that order.
func OpenStore(backend, configPath string, overrides config.Overrides) (storage.Provider, error) {
	if strings.HasPrefix(configPath, "postgres://") || strings.HasPrefix(configPath, "postgresql://") {
		return postgres.New(configPath)
	}

	switch backend {
	case BackendSQLite:
		path, err := ExpandHome(configPath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	case BackendPostgres:
		connStr := overrides.DBConnection
		if connStr == "" {
			var err error
			connStr, err = keyring.DatabaseEntry().Get()
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no PostgreSQL connection string: set AUTOPLAN_DB_CONNECTION or run 'autoplan keyring set'")
			}
			if err != nil {
				return nil, err
			}
		}
		return postgres.New(connStr)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		// Try parsing as number (0=Sunday, 6=Saturday)
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}
	return weekdays, nil
}

// ParseInts parses a comma-separated list of integers within [min, max].
func ParseInts(s string, min, max int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < min || n > max {
			return nil, fmt.Errorf("invalid value %q, expected %d..%d", part, min, max)
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseDateTime accepts "YYYY-MM-DD" (date only, midnight) or "YYYY-MM-DD HH:MM".
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if date, clock, ok := strings.Cut(s, " "); ok {
		return utils.CombineDateAndTime(date, strings.TrimSpace(clock), loc)
	}
	if date, clock, ok := strings.Cut(s, "T"); ok {
		return utils.CombineDateAndTime(date, clock, loc)
	}
	return utils.ParseDateInLocation(s, loc)
}

// ParseDate accepts "today", "tomorrow" or YYYY-MM-DD.
func ParseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(s) {
	case "", "today":
		return utils.StartOfDay(now), nil
	case "tomorrow":
		return utils.StartOfDay(now).AddDate(0, 0, 1), nil
	}
	d, err := utils.ParseDateInLocation(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD, 'today' or 'tomorrow': %w", err)
	}
	return d, nil
}

// FormatRecurrence formats a recurrence plan into a human-readable string
func FormatRecurrence(rec *models.RecurrencePlan) string {
	if rec == nil {
		return "once"
	}

	interval := rec.Interval
	if interval < 1 {
		interval = 1
	}
	var s string
	switch rec.Frequency {
	case models.FrequencyCustom:
		s = fmt.Sprintf("every %d %s", interval, rec.Unit)
	default:
		if interval == 1 {
			s = string(rec.Frequency)
		} else {
			s = fmt.Sprintf("%s every %d", rec.Frequency, interval)
		}
	}

	if len(rec.Weekdays) > 0 {
		var days []string
		for _, wd := range rec.Weekdays {
			days = append(days, wd.String()[:3])
		}
		s += " on " + strings.Join(days, ",")
	}
	switch {
	case rec.EndDate != nil:
		s += " until " + rec.EndDate.Format("2006-01-02")
	case rec.Count > 0:
		s += fmt.Sprintf(" x%d", rec.Count)
	}
	return s
}

// Localize moves every instant of the tasks into loc so date-only values stay at midnight.
func Localize(tasks []models.Task, loc *time.Location) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if t.Start != nil {
			s := t.Start.In(loc)
			t.Start = &s
		}
		if t.End != nil {
			e := t.End.In(loc)
			t.End = &e
		}
		if t.Recurrence != nil {
			rec := *t.Recurrence
			if rec.EndDate != nil {
				e := rec.EndDate.In(loc)
				rec.EndDate = &e
			}
			t.Recurrence = &rec
		}
		out[i] = t
	}
	return out
}

package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/autoplan/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDayStart:
			settings.DayStart = value
		case constants.SettingDayEnd:
			settings.DayEnd = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingScope:
			settings.Scope = ScheduleScope(value)
		case constants.SettingStrategy:
			settings.Strategy = PrioritizationStrategy(value)
		case constants.SettingOrganization:
			settings.Organization = DayOrganization(value)
		case constants.SettingOverdue:
			settings.Overdue = OverdueTaskHandling(value)
		case constants.SettingHeuristic:
			settings.Heuristic = PlacementHeuristic(value)
		case constants.SettingAllowSplitting:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing allow_splitting: %w", err)
			}
			settings.AllowSplitting = b
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDayStart:       settings.DayStart,
		constants.SettingDayEnd:         settings.DayEnd,
		constants.SettingTimezone:       settings.Timezone,
		constants.SettingScope:          string(settings.Scope),
		constants.SettingStrategy:       string(settings.Strategy),
		constants.SettingOrganization:   string(settings.Organization),
		constants.SettingOverdue:        string(settings.Overdue),
		constants.SettingHeuristic:      string(settings.Heuristic),
		constants.SettingAllowSplitting: strconv.FormatBool(settings.AllowSplitting),
	}
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	s := Settings{AllowSplitting: constants.DefaultAllowSplitting}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DayStart == "" {
		settings.DayStart = constants.DefaultDayStart
	}
	if settings.DayEnd == "" {
		settings.DayEnd = constants.DefaultDayEnd
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.Scope == "" {
		settings.Scope = constants.DefaultScope
	}
	if settings.Strategy == "" {
		settings.Strategy = constants.DefaultStrategy
	}
	if settings.Organization == "" {
		settings.Organization = constants.DefaultOrganization
	}
	if settings.Overdue == "" {
		settings.Overdue = constants.DefaultOverdue
	}
	if settings.Heuristic == "" {
		settings.Heuristic = constants.DefaultHeuristic
	}
}

// Validate checks that every enumerated setting holds a known value.
func (s Settings) Validate() error {
	switch s.Scope {
	case ScopeToday, ScopeTomorrow, ScopeThisWeek:
	default:
		return fmt.Errorf("invalid schedule scope %q", s.Scope)
	}
	switch s.Strategy {
	case StrategyByUrgency, StrategyByImportance, StrategyByDuration:
	default:
		return fmt.Errorf("invalid prioritization strategy %q", s.Strategy)
	}
	switch s.Organization {
	case OrganizationCompact, OrganizationBuffered, OrganizationBalanced:
	default:
		return fmt.Errorf("invalid day organization %q", s.Organization)
	}
	switch s.Overdue {
	case OverduePostponeToTomorrow, OverdueUserReview, OverdueNextAvailable:
	default:
		return fmt.Errorf("invalid overdue handling %q", s.Overdue)
	}
	switch s.Heuristic {
	case HeuristicEarliestFit, HeuristicBestFit:
	default:
		return fmt.Errorf("invalid placement heuristic %q", s.Heuristic)
	}
	return nil
}

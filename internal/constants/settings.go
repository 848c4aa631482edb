package constants

const (
	// General Settings
	SettingDayStart       = "day_start"
	SettingDayEnd         = "day_end"
	SettingTimezone       = "timezone"
	SettingScope          = "schedule_scope"
	SettingStrategy       = "prioritization_strategy"
	SettingOrganization   = "day_organization"
	SettingOverdue        = "overdue_handling"
	SettingHeuristic      = "placement_heuristic"
	SettingAllowSplitting = "allow_splitting"

	// Default Settings Values
	DefaultDayStart       = "09:00"
	DefaultDayEnd         = "17:00"
	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultScope          = "today"
	DefaultStrategy       = "by_urgency"
	DefaultOrganization   = "compact"
	DefaultOverdue        = "user_review_required"
	DefaultHeuristic      = "earliest_fit"
	DefaultAllowSplitting = true
)

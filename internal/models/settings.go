package models

type ScheduleScope string

const (
	ScopeToday    ScheduleScope = "today"
	ScopeTomorrow ScheduleScope = "tomorrow"
	ScopeThisWeek ScheduleScope = "this_week"
)

type PrioritizationStrategy string

const (
	StrategyByUrgency    PrioritizationStrategy = "by_urgency"
	StrategyByImportance PrioritizationStrategy = "by_importance"
	StrategyByDuration   PrioritizationStrategy = "by_duration"
)

type DayOrganization string

const (
	// OrganizationCompact packs tasks back to back without buffers or breaks.
	OrganizationCompact DayOrganization = "compact"
	// OrganizationBuffered adds a buffer after each placed task.
	OrganizationBuffered DayOrganization = "buffered"
	// OrganizationBalanced adds buffers plus recurring breaks and a lunch slot.
	OrganizationBalanced DayOrganization = "balanced"
)

// GeneratesBuffers reports whether tasks get a trailing buffer block.
func (o DayOrganization) GeneratesBuffers() bool {
	return o == OrganizationBuffered || o == OrganizationBalanced
}

type OverdueTaskHandling string

const (
	OverduePostponeToTomorrow OverdueTaskHandling = "postpone_to_tomorrow"
	OverdueUserReview         OverdueTaskHandling = "user_review_required"
	OverdueNextAvailable      OverdueTaskHandling = "next_available"
)

type PlacementHeuristic string

const (
	HeuristicEarliestFit PlacementHeuristic = "earliest_fit"
	HeuristicBestFit     PlacementHeuristic = "best_fit"
)

// Settings represents application-wide settings
type Settings struct {
	DayStart       string                 `json:"day_start"`       // work start, e.g. "09:00"
	DayEnd         string                 `json:"day_end"`         // work end, e.g. "17:00"; may wrap past midnight
	Timezone       string                 `json:"timezone"`        // IANA timezone name or "Local"
	Scope          ScheduleScope          `json:"schedule_scope"`  // planning window
	Strategy       PrioritizationStrategy `json:"prioritization_strategy"`
	Organization   DayOrganization        `json:"day_organization"`
	Overdue        OverdueTaskHandling    `json:"overdue_handling"`
	Heuristic      PlacementHeuristic     `json:"placement_heuristic"`
	AllowSplitting bool                   `json:"allow_splitting"` // global switch, ANDed with the task's own flag
}

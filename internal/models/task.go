package models

import "time"

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities from none (0) to high (3).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, "":
		return true
	}
	return false
}

type DayPeriod string

const (
	PeriodNone    DayPeriod = "none"
	PeriodMorning DayPeriod = "morning"
	PeriodEvening DayPeriod = "evening"
	PeriodNight   DayPeriod = "night"
	PeriodAllDay  DayPeriod = "allday"
)

// IsSpecific reports whether the period narrows the day to a clock range.
func (p DayPeriod) IsSpecific() bool {
	return p == PeriodMorning || p == PeriodEvening || p == PeriodNight
}

func (p DayPeriod) Valid() bool {
	switch p {
	case PeriodNone, PeriodMorning, PeriodEvening, PeriodNight, PeriodAllDay, "":
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"
)

type FrequencyUnit string

const (
	UnitDays   FrequencyUnit = "days"
	UnitWeeks  FrequencyUnit = "weeks"
	UnitMonths FrequencyUnit = "months"
	UnitYears  FrequencyUnit = "years"
)

// RecurrencePlan describes how a task repeats. EndDate and Count are
// mutually exclusive; EndDate wins when both are set.
type RecurrencePlan struct {
	Frequency    Frequency      `json:"frequency"`
	Unit         FrequencyUnit  `json:"unit,omitempty"` // CUSTOM only
	Interval     int            `json:"interval,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
	Count        int            `json:"count,omitempty"`
	Weekdays     []time.Weekday `json:"weekdays,omitempty"`
	MonthDays    []int          `json:"month_days,omitempty"`
	Months       []int          `json:"months,omitempty"`
	SetPositions []int          `json:"set_positions,omitempty"`
}

type TaskDuration struct {
	Minutes        int  `json:"minutes"`
	AllowSplitting bool `json:"allow_splitting"`
}

type Task struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Priority   Priority        `json:"priority"`
	Start      *time.Time      `json:"start,omitempty"`  // midnight means date only
	Period     DayPeriod       `json:"period,omitempty"` // only meaningful with Start
	End        *time.Time      `json:"end,omitempty"`    // end or deadline
	Duration   TaskDuration    `json:"duration"`
	Recurrence *RecurrencePlan `json:"recurrence,omitempty"`
	Completed  bool            `json:"completed"`
	DeletedAt  *string         `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// DurationValue returns the effective duration.
func (t Task) DurationValue() time.Duration {
	return time.Duration(t.Duration.Minutes) * time.Minute
}

// HasExactStart reports whether the task starts at a specific, non-midnight clock time.
func (t Task) HasExactStart() bool {
	if t.Start == nil {
		return false
	}
	h, m, s := t.Start.Clock()
	return h != 0 || m != 0 || s != 0
}

func (t Task) HasPeriod() bool {
	return t.Start != nil && t.Period.IsSpecific()
}

func (t Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// IsFixedAppointment reports whether start and end fall on the same calendar
// day with a positive span. Such tasks are never moved automatically.
func (t Task) IsFixedAppointment() bool {
	if t.Start == nil || t.End == nil {
		return false
	}
	sy, sm, sd := t.Start.Date()
	ey, em, ed := t.End.Date()
	return sy == ey && sm == em && sd == ed && t.End.After(*t.Start)
}

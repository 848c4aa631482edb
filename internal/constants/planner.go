package constants

import "time"

const (
	// MaxRecurrenceOccurrences caps how many occurrences a single recurrence
	// plan may contribute to one planning window.
	MaxRecurrenceOccurrences = 1000

	// MaxPlacementAttempts bounds the search-and-split loop for one task.
	MaxPlacementAttempts = 200
	// MinSplitChunk is the smallest piece a splittable task is cut into.
	MinSplitChunk = 30 * time.Minute

	// Break layout for the balanced day organization.
	BreakInterval = 3 * time.Hour
	BreakLength   = 15 * time.Minute
	LunchStartMin = 12*60 + 30
	LunchLength   = 30 * time.Minute

	// Buffer lengths placed after a task.
	BufferHighPriority = 20 * time.Minute
	BufferLongTask     = 15 * time.Minute
	BufferMediumTask   = 10 * time.Minute
	BufferShortTask    = 5 * time.Minute
	LongTaskMin        = 120
	MediumTaskMin      = 60

	// Day-period clock ranges in minutes from midnight, [start, end).
	MorningStartMin = 6 * 60
	MorningEndMin   = 12 * 60
	EveningStartMin = 12 * 60
	EveningEndMin   = 18 * 60
	NightStartMin   = 18 * 60
	NightEndMin     = 24 * 60
)

package planning

import (
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
)

// ConflictType classifies why a task could not be scheduled.
type ConflictType string

const (
	ConflictZeroDuration    ConflictType = "ZERO_DURATION"
	ConflictOutsideScope    ConflictType = "OUTSIDE_SCOPE"
	ConflictFixedVsFixed    ConflictType = "FIXED_VS_FIXED"
	ConflictRecurrenceError ConflictType = "RECURRENCE_ERROR"
	ConflictCannotFitPeriod ConflictType = "CANNOT_FIT_PERIOD"
	ConflictNoSlotOnDate    ConflictType = "NO_SLOT_ON_DATE"
	ConflictNoSlotInScope   ConflictType = "NO_SLOT_IN_SCOPE"
	ConflictPlacementError  ConflictType = "PLACEMENT_ERROR"
)

// IsHard reports whether the conflict permanently excludes the task from
// further placement in the same run.
func (c ConflictType) IsHard() bool {
	return c == ConflictFixedVsFixed || c == ConflictRecurrenceError
}

// Conflict is a recorded, non-fatal scheduling failure. Tasks[0] is the task
// the conflict was raised for; any further entries are the tasks it collided with.
type Conflict struct {
	Type   ConflictType
	Tasks  []models.Task
	Reason string
	At     *time.Time
}

func (c Conflict) String() string {
	if c.At != nil {
		return fmt.Sprintf("[%s] %s (at %s)", c.Type, c.Reason, c.At.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf("[%s] %s", c.Type, c.Reason)
}

// Involves reports whether the conflict references the given task id.
func (c Conflict) Involves(taskID string) bool {
	for _, t := range c.Tasks {
		if t.ID == taskID {
			return true
		}
	}
	return false
}

// ScheduledItem is one placed piece of a task on one date.
type ScheduledItem struct {
	Task  models.Task
	Date  string // YYYY-MM-DD
	Start time.Time
	End   time.Time
}

// Notice is a non-fatal message about a task, e.g. placement outside its preferred period.
type Notice struct {
	TaskID   string
	TaskName string
	Message  string
}

package planning

import (
	"time"

	"github.com/julianstephens/autoplan/internal/models"
)

// Resolution is the lifecycle state of a task within one planning run.
type Resolution int

const (
	Unresolved Resolution = iota
	Placed
	Conflicted
	Postponed
	NeedsManualResolution
)

func (r Resolution) String() string {
	switch r {
	case Unresolved:
		return "unresolved"
	case Placed:
		return "placed"
	case Conflicted:
		return "conflicted"
	case Postponed:
		return "postponed"
	case NeedsManualResolution:
		return "needs_manual_resolution"
	default:
		return "unknown"
	}
}

// Task wraps a models.Task with flags private to one planning run. The flags
// are read through accessors; only Context changes them.
type Task struct {
	Task models.Task

	overdue          bool
	constraintDate   *time.Time
	hardConflict     bool
	manualResolution bool
	postponed        bool
	failedPeriod     bool
	state            Resolution
}

func (t *Task) ID() string { return t.Task.ID }

func (t *Task) IsOverdue() bool { return t.overdue }

// ConstraintDate is the date an overdue task was assigned to, if any.
func (t *Task) ConstraintDate() (time.Time, bool) {
	if t.constraintDate == nil {
		return time.Time{}, false
	}
	return *t.constraintDate, true
}

func (t *Task) IsHardConflict() bool { return t.hardConflict }

func (t *Task) NeedsManualResolution() bool { return t.manualResolution }

func (t *Task) IsPostponed() bool { return t.postponed }

// FailedPeriod reports that the task could not be placed inside its day-period.
func (t *Task) FailedPeriod() bool { return t.failedPeriod }

func (t *Task) Resolution() Resolution { return t.state }

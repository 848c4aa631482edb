package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
	"github.com/julianstephens/autoplan/internal/utils"
)

// WindowFor returns the planning window for scope relative to now.
func WindowFor(scope models.ScheduleScope, now time.Time) (planning.Window, error) {
	today := utils.StartOfDay(now)
	switch scope {
	case models.ScopeToday:
		return planning.NewWindow(today, today), nil
	case models.ScopeTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		return planning.NewWindow(tomorrow, tomorrow), nil
	case models.ScopeThisWeek:
		return planning.NewWindow(today, today.AddDate(0, 0, 6)), nil
	}
	return planning.Window{}, fmt.Errorf("unknown schedule scope %q", scope)
}

// fitsScope reports whether a task can land anywhere in w. A task with
// neither start nor end always can.
func fitsScope(task models.Task, w planning.Window) bool {
	if task.Start == nil && task.End == nil {
		return true
	}
	if task.Start != nil && !task.Start.Before(w.End) {
		return false
	}
	if task.End != nil && task.End.Before(w.Start) {
		return false
	}
	if task.Start != nil {
		estimatedEnd := utils.StartOfDay(task.Start.Add(task.DurationValue()))
		if estimatedEnd.Before(w.Start) {
			return false
		}
	}
	return true
}

package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
	"github.com/julianstephens/autoplan/internal/utils"
)

// handleOverdue applies the overdue strategy to every unresolved task whose
// deadline has passed. Fixed appointments are never moved.
func handleOverdue(ctx *planning.Context, strategy models.OverdueTaskHandling, now time.Time, w planning.Window) {
	var expired []*planning.Task
	for _, t := range ctx.Unresolved() {
		if t.Task.End == nil || !t.Task.End.Before(now) || t.Task.IsFixedAppointment() {
			continue
		}
		expired = append(expired, t)
	}
	if len(expired) == 0 {
		return
	}
	logger.Debug("overdue tasks", "count", len(expired), "strategy", strategy)

	switch strategy {
	case models.OverduePostponeToTomorrow:
		for _, t := range expired {
			ctx.Postpone(t.ID())
		}
	case models.OverdueNextAvailable:
		days := availableDays(utils.StartOfDay(now), w)
		if len(days) == 0 {
			for _, t := range expired {
				ctx.RequireManualResolution(t.ID())
			}
			return
		}
		sort.SliceStable(expired, func(i, j int) bool {
			return expired[i].Task.Priority.Rank() > expired[j].Task.Priority.Rank()
		})
		for i, t := range expired {
			day := days[i%len(days)]
			ctx.MarkOverdue(t.ID(), &day)
		}
	default:
		for _, t := range expired {
			ctx.RequireManualResolution(t.ID())
		}
	}
}

// availableDays lists the window dates from max(today, window start) on.
func availableDays(today time.Time, w planning.Window) []time.Time {
	var days []time.Time
	for _, d := range w.Days() {
		if !d.Before(today) {
			days = append(days, d)
		}
	}
	return days
}

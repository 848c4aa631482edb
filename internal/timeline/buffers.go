package timeline

import (
	"time"

	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/utils"
)

// BufferLength is the pause that follows task under buffer-generating organizations.
func BufferLength(task models.Task) time.Duration {
	switch {
	case task.Priority == models.PriorityHigh:
		return constants.BufferHighPriority
	case task.Duration.Minutes >= constants.LongTaskMin:
		return constants.BufferLongTask
	case task.Duration.Minutes >= constants.MediumTaskMin:
		return constants.BufferMediumTask
	default:
		return constants.BufferShortTask
	}
}

// AddBufferOrBreak places a buffer right after a block of task ending at
// taskEnd. The buffer is only added when its exact span is free and ends by
// the close of the surrounding work window.
func (m *Manager) AddBufferOrBreak(taskEnd time.Time, task models.Task) bool {
	if !m.cfg.Organization.GeneratesBuffers() {
		return false
	}
	end := taskEnd.Add(BufferLength(task))
	if end.After(m.workEndAround(taskEnd)) {
		return false
	}
	return m.placeBuffer(taskEnd, end)
}

// workEndAround returns the end of the work window containing t, or the end
// of t's date when t is outside work hours.
func (m *Manager) workEndAround(t time.Time) time.Time {
	for _, day := range []time.Time{t, t.AddDate(0, 0, -1)} {
		ws, we := m.WorkHours(day)
		if !t.Before(ws) && !t.After(we) {
			return we
		}
	}
	return utils.StartOfDay(t).AddDate(0, 0, 1)
}

func (m *Manager) placeBuffer(start, end time.Time) bool {
	if !utils.SameDate(start, end.Add(-time.Nanosecond)) {
		return false
	}
	d, ok := m.Day(start)
	if !ok || !d.isFree(start, end) {
		return false
	}
	d.splice(Block{Start: start, End: end, Occupancy: Buffer})
	return true
}

// addBreaks overlays a lunch slot and a short break every few hours of the
// day's work window.
func (m *Manager) addBreaks(d *DaySchedule) {
	lunchStart := utils.AtMinutes(d.Date, constants.LunchStartMin)
	lunchEnd := lunchStart.Add(constants.LunchLength)
	if !lunchStart.Before(d.WorkStart) && !lunchEnd.After(d.WorkEnd) {
		m.placeBuffer(lunchStart, lunchEnd)
	}

	for t := d.WorkStart.Add(constants.BreakInterval); ; t = t.Add(constants.BreakInterval) {
		end := t.Add(constants.BreakLength)
		if end.After(d.WorkEnd) {
			return
		}
		if t.Before(lunchEnd) && lunchStart.Before(end) {
			continue
		}
		m.placeBuffer(t, end)
	}
}

package timeline

import (
	"time"

	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
	"github.com/julianstephens/autoplan/internal/utils"
)

// Config is the day layout shared by every date in the window.
type Config struct {
	WorkStartMin int
	WorkEndMin   int
	Organization models.DayOrganization
}

// Manager owns the day schedules of one planning run.
type Manager struct {
	cfg    Config
	days   []*DaySchedule
	byDate map[string]*DaySchedule
}

// Snapshot is an opaque copy of every day's blocks.
type Snapshot map[string][]Block

func New(cfg Config) *Manager {
	return &Manager{cfg: cfg, byDate: make(map[string]*DaySchedule)}
}

// Initialize lays out one schedule per window date and records the tasks
// waiting for a day-period slot, keyed by date then period.
func (m *Manager) Initialize(w planning.Window, pending map[string]map[models.DayPeriod][]string) {
	m.days = nil
	m.byDate = make(map[string]*DaySchedule)
	for _, date := range w.Days() {
		d := newDaySchedule(date, m.cfg.WorkStartMin, m.cfg.WorkEndMin)
		m.days = append(m.days, d)
		m.byDate[d.Key()] = d
	}
	if m.cfg.Organization == models.OrganizationBalanced {
		for _, d := range m.days {
			m.addBreaks(d)
		}
	}
	for key, periods := range pending {
		d, ok := m.byDate[key]
		if !ok {
			continue
		}
		for period, ids := range periods {
			d.pending[period] = append(d.pending[period], ids...)
		}
	}
	logger.Debug("timeline initialized", "days", len(m.days), "organization", m.cfg.Organization)
}

// Days returns the schedules in date order.
func (m *Manager) Days() []*DaySchedule {
	return append([]*DaySchedule(nil), m.days...)
}

// Day returns the schedule for the calendar date of t.
func (m *Manager) Day(t time.Time) (*DaySchedule, bool) {
	d, ok := m.byDate[utils.DateKey(t)]
	return d, ok
}

// WorkHours returns the work window that starts on the date of day, whether
// or not that date belongs to the planning window.
func (m *Manager) WorkHours(day time.Time) (time.Time, time.Time) {
	midnight := utils.StartOfDay(day)
	switch {
	case m.cfg.WorkStartMin == m.cfg.WorkEndMin:
		return midnight, midnight.AddDate(0, 0, 1)
	case m.cfg.WorkStartMin < m.cfg.WorkEndMin:
		return utils.AtMinutes(midnight, m.cfg.WorkStartMin), utils.AtMinutes(midnight, m.cfg.WorkEndMin)
	default:
		return utils.AtMinutes(midnight, m.cfg.WorkStartMin), utils.AtMinutes(midnight.AddDate(0, 0, 1), m.cfg.WorkEndMin)
	}
}

// WithinWorkHours reports whether [start, end) lies inside a single work window.
func (m *Manager) WithinWorkHours(start, end time.Time) bool {
	for _, day := range []time.Time{start, start.AddDate(0, 0, -1)} {
		ws, we := m.WorkHours(day)
		if !start.Before(ws) && !end.After(we) {
			return true
		}
	}
	return false
}

// PlaceTask inserts a block for task over [start, end). The span must lie on
// a single date of the window.
func (m *Manager) PlaceTask(task models.Task, start, end time.Time, occ Occupancy) PlacementResult {
	if !start.Before(end) {
		return Rejected{Reason: "start is not before end"}
	}
	if !utils.SameDate(start, end.Add(-time.Nanosecond)) {
		return Rejected{Reason: "span crosses midnight"}
	}
	d, ok := m.Day(start)
	if !ok {
		return Rejected{Reason: "date " + utils.DateKey(start) + " is outside the planning window"}
	}

	if blockers := d.blockers(start, end, occ); len(blockers) > 0 {
		b := blockers[0]
		typ := planning.ConflictPlacementError
		if b.Occupancy == FixedTask {
			typ = planning.ConflictFixedVsFixed
		}
		return Blocked{Type: typ, BlockingTaskID: b.TaskID, At: utils.MaxTime(b.Start, start)}
	}

	nb := Block{Start: start, End: end, Occupancy: occ, Priority: task.Priority, TaskID: task.ID}
	d.splice(nb)
	return Placed{Block: nb}
}

// ResolvePending drops the task from every day's pending period buckets.
func (m *Manager) ResolvePending(taskID string) {
	for _, d := range m.days {
		d.removePending(taskID)
	}
}

// PendingPeriodTasks lists the ids still sitting in any pending period
// bucket, in date order.
func (m *Manager) PendingPeriodTasks() []string {
	var out []string
	seen := make(map[string]struct{})
	periods := []models.DayPeriod{models.PeriodMorning, models.PeriodEvening, models.PeriodNight}
	for _, d := range m.days {
		for _, p := range periods {
			for _, id := range d.pending[p] {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

func (m *Manager) Checkpoint() Snapshot {
	s := make(Snapshot, len(m.days))
	for _, d := range m.days {
		s[d.Key()] = append([]Block(nil), d.Blocks...)
	}
	return s
}

// Rollback restores the block layout captured by Checkpoint.
func (m *Manager) Rollback(s Snapshot) {
	for _, d := range m.days {
		if blocks, ok := s[d.Key()]; ok {
			d.Blocks = append([]Block(nil), blocks...)
		}
	}
}

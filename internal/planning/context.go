package planning

import (
	"sort"
	"time"

	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
)

// Context is the mutable state of one planning run. It is the single writer
// of task flags and resolution state and is discarded when the run ends.
type Context struct {
	tasks     map[string]*Task
	order     []string
	placed    map[string]struct{}
	conflicts []Conflict
	postponed []models.Task
	manual    []models.Task
	notices   []Notice
	scheduled map[string][]ScheduledItem
}

// NewContext wraps every non-completed task. Input order is preserved.
func NewContext(tasks []models.Task) *Context {
	c := &Context{
		tasks:     make(map[string]*Task, len(tasks)),
		placed:    make(map[string]struct{}),
		scheduled: make(map[string][]ScheduledItem),
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if _, dup := c.tasks[t.ID]; dup {
			continue
		}
		c.tasks[t.ID] = &Task{Task: t}
		c.order = append(c.order, t.ID)
	}
	return c
}

// Task looks up a planning task by id.
func (c *Context) Task(id string) (*Task, bool) {
	t, ok := c.tasks[id]
	return t, ok
}

// Tasks returns every planning task in input order.
func (c *Context) Tasks() []*Task {
	out := make([]*Task, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tasks[id])
	}
	return out
}

// Unresolved returns the tasks not yet in the placed set, in input order.
func (c *Context) Unresolved() []*Task {
	var out []*Task
	for _, id := range c.order {
		if !c.IsPlaced(id) {
			out = append(out, c.tasks[id])
		}
	}
	return out
}

// IsPlaced reports whether the task has been finally resolved.
func (c *Context) IsPlaced(id string) bool {
	_, ok := c.placed[id]
	return ok
}

func (c *Context) resolve(t *Task, state Resolution) {
	if _, done := c.placed[t.ID()]; done {
		return
	}
	t.state = state
	c.placed[t.ID()] = struct{}{}
}

// MarkOverdue flags the task overdue and pins it to date, or to no date when
// date is nil. It also clears any pending manual-resolution flag so the task
// still reaches automatic placement.
func (c *Context) MarkOverdue(id string, date *time.Time) {
	t, ok := c.tasks[id]
	if !ok {
		return
	}
	t.overdue = true
	t.manualResolution = false
	if date != nil {
		d := *date
		t.constraintDate = &d
	} else {
		t.constraintDate = nil
	}
}

// Postpone removes the task from this run and reports it as postponed.
func (c *Context) Postpone(id string) {
	t, ok := c.tasks[id]
	if !ok || c.IsPlaced(id) {
		return
	}
	t.postponed = true
	c.resolve(t, Postponed)
	c.postponed = append(c.postponed, t.Task)
}

// RequireManualResolution removes the task from automatic placement and
// surfaces it to the caller.
func (c *Context) RequireManualResolution(id string) {
	t, ok := c.tasks[id]
	if !ok || c.IsPlaced(id) {
		return
	}
	t.manualResolution = true
	c.resolve(t, NeedsManualResolution)
	c.manual = append(c.manual, t.Task)
}

// MarkFailedPeriod records that the task did not fit its day-period window.
func (c *Context) MarkFailedPeriod(id string) {
	if t, ok := c.tasks[id]; ok {
		t.failedPeriod = true
	}
}

// MarkHardConflict excludes the task from any further placement attempt
// without resolving it.
func (c *Context) MarkHardConflict(id string) {
	if t, ok := c.tasks[id]; ok {
		t.hardConflict = true
	}
}

// MarkResolved moves the task into the placed set as conflicted without
// recording a new conflict.
func (c *Context) MarkResolved(id string) {
	if t, ok := c.tasks[id]; ok {
		c.resolve(t, Conflicted)
	}
}

// RecordPlacement stores a scheduled piece of the task. The first placement
// resolves the task; later pieces (split chunks, further occurrences) only
// add items.
func (c *Context) RecordPlacement(id string, start, end time.Time) {
	t, ok := c.tasks[id]
	if !ok {
		return
	}
	date := start.Format("2006-01-02")
	c.scheduled[date] = append(c.scheduled[date], ScheduledItem{
		Task:  t.Task,
		Date:  date,
		Start: start,
		End:   end,
	})
	c.resolve(t, Placed)
}

// RecordConflict records a conflict raised for subjectID, optionally naming
// the tasks it collided with. Hard conflicts flag the subject; the subject is
// resolved either way.
func (c *Context) RecordConflict(subjectID string, typ ConflictType, reason string, at *time.Time, others ...string) {
	t, ok := c.tasks[subjectID]
	if !ok {
		return
	}
	conflict := Conflict{Type: typ, Reason: reason, Tasks: []models.Task{t.Task}}
	if at != nil {
		ts := *at
		conflict.At = &ts
	}
	for _, id := range others {
		if o, ok := c.tasks[id]; ok {
			conflict.Tasks = append(conflict.Tasks, o.Task)
		}
	}
	c.conflicts = append(c.conflicts, conflict)
	if typ.IsHard() {
		t.hardConflict = true
	}
	c.resolve(t, Conflicted)
	logger.Info("scheduling conflict", "type", typ, "task", t.Task.Name, "reason", reason)
}

// HasConflictFor reports whether any recorded conflict was raised for the task.
func (c *Context) HasConflictFor(id string) bool {
	for _, conflict := range c.conflicts {
		if len(conflict.Tasks) > 0 && conflict.Tasks[0].ID == id {
			return true
		}
	}
	return false
}

// AddNotice records a non-fatal message about a task.
func (c *Context) AddNotice(id, message string) {
	n := Notice{TaskID: id, Message: message}
	if t, ok := c.tasks[id]; ok {
		n.TaskName = t.Task.Name
	}
	c.notices = append(c.notices, n)
}

// SortScheduled orders every day's items by start time.
func (c *Context) SortScheduled() {
	for date := range c.scheduled {
		items := c.scheduled[date]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Start.Before(items[j].Start)
		})
	}
}

func (c *Context) Conflicts() []Conflict { return append([]Conflict(nil), c.conflicts...) }

func (c *Context) Postponed() []models.Task { return append([]models.Task(nil), c.postponed...) }

func (c *Context) ManualResolution() []models.Task { return append([]models.Task(nil), c.manual...) }

func (c *Context) Notices() []Notice { return append([]Notice(nil), c.notices...) }

// Scheduled returns a copy of the date-keyed scheduled items.
func (c *Context) Scheduled() map[string][]ScheduledItem {
	out := make(map[string][]ScheduledItem, len(c.scheduled))
	for date, items := range c.scheduled {
		out[date] = append([]ScheduledItem(nil), items...)
	}
	return out
}

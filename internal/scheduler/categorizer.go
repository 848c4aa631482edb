package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
	"github.com/julianstephens/autoplan/internal/recurrence"
	"github.com/julianstephens/autoplan/internal/utils"
)

// category is the placement bucket of a task that still needs a slot.
type category int

const (
	categoryPeriod category = iota
	categoryDate
	categoryDeadline
	categoryFlexible
)

func (c category) String() string {
	switch c {
	case categoryPeriod:
		return "period"
	case categoryDate:
		return "date"
	case categoryDeadline:
		return "deadline"
	default:
		return "flexible"
	}
}

// fixedOccurrence is one fixed-time placement request.
type fixedOccurrence struct {
	task *planning.Task
	at   time.Time
}

type pendingTask struct {
	task     *planning.Task
	category category
	date     time.Time        // categoryPeriod and categoryDate
	period   models.DayPeriod // categoryPeriod
}

type categorization struct {
	fixed   []fixedOccurrence
	pending []pendingTask
}

// periodBuckets groups the period tasks by date key then period.
func (c categorization) periodBuckets() map[string]map[models.DayPeriod][]string {
	out := make(map[string]map[models.DayPeriod][]string)
	for _, pt := range c.pending {
		if pt.category != categoryPeriod {
			continue
		}
		key := utils.DateKey(pt.date)
		if out[key] == nil {
			out[key] = make(map[models.DayPeriod][]string)
		}
		out[key][pt.period] = append(out[key][pt.period], pt.task.ID())
	}
	return out
}

// categorize sorts every unresolved task into a placement bucket. Recurring
// occurrences without a clock time are moved to defaultMin minutes after midnight.
func categorize(ctx *planning.Context, w planning.Window, now time.Time, defaultMin int) categorization {
	var c categorization
	today := utils.StartOfDay(now)

	for _, t := range ctx.Unresolved() {
		if t.IsHardConflict() {
			continue
		}

		if t.IsOverdue() {
			date, ok := t.ConstraintDate()
			switch {
			case !ok:
				c.addFlexible(t)
			case utils.SameDate(date, today):
				c.pending = append(c.pending, pendingTask{task: t, category: categoryDate, date: today})
			case w.ContainsDate(date):
				c.pending = append(c.pending, pendingTask{task: t, category: categoryDate, date: utils.StartOfDay(date)})
			default:
				c.addFlexible(t)
			}
			continue
		}

		if t.Task.IsRecurring() {
			exp, err := recurrence.Expand(t.Task, w)
			if err != nil {
				reason := fmt.Sprintf("cannot expand recurrence of %q: %v", t.Task.Name, err)
				if errors.Is(err, recurrence.ErrNoStart) {
					reason = fmt.Sprintf("recurring task %q has no start time", t.Task.Name)
				}
				ctx.RecordConflict(t.ID(), planning.ConflictRecurrenceError, reason, nil)
				continue
			}
			if exp.Truncated {
				ctx.AddNotice(t.ID(), fmt.Sprintf("recurrence truncated to the first %d occurrences in the window", len(exp.Occurrences)))
			}
			if len(exp.Occurrences) > 0 {
				for _, occ := range exp.Occurrences {
					if occ.Equal(utils.StartOfDay(occ)) {
						occ = utils.AtMinutes(occ, defaultMin)
					}
					c.fixed = append(c.fixed, fixedOccurrence{task: t, at: occ})
				}
				continue
			}
			if !fitsScope(t.Task, w) {
				continue
			}
		} else if !fitsScope(t.Task, w) {
			logger.Debug("task outside planning window", "task", t.Task.Name)
			continue
		}

		c.classify(t, w)
	}

	logger.Debug("categorized tasks", "fixed", len(c.fixed), "pending", len(c.pending))
	return c
}

func (c *categorization) classify(t *planning.Task, w planning.Window) {
	task := t.Task
	exact := task.HasExactStart()
	hasStart := task.Start != nil
	hasEnd := task.End != nil
	period := task.HasPeriod()

	switch {
	case exact && !hasEnd && !period:
		if !w.Contains(*task.Start) {
			c.addFlexible(t)
			return
		}
		c.fixed = append(c.fixed, fixedOccurrence{task: t, at: *task.Start})
	case exact && hasEnd:
		c.addDeadline(t)
	case hasStart && period && !hasEnd:
		if !w.ContainsDate(*task.Start) {
			c.addFlexible(t)
			return
		}
		c.pending = append(c.pending, pendingTask{
			task:     t,
			category: categoryPeriod,
			date:     utils.StartOfDay(*task.Start),
			period:   task.Period,
		})
	case hasStart && !hasEnd:
		if !w.ContainsDate(*task.Start) {
			c.addFlexible(t)
			return
		}
		c.pending = append(c.pending, pendingTask{task: t, category: categoryDate, date: utils.StartOfDay(*task.Start)})
	case hasEnd:
		c.addDeadline(t)
	default:
		c.addFlexible(t)
	}
}

func (c *categorization) addDeadline(t *planning.Task) {
	c.pending = append(c.pending, pendingTask{task: t, category: categoryDeadline})
}

func (c *categorization) addFlexible(t *planning.Task) {
	c.pending = append(c.pending, pendingTask{task: t, category: categoryFlexible})
}

package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
	"github.com/julianstephens/autoplan/internal/timeline"
	"github.com/julianstephens/autoplan/internal/utils"
)

type placer struct {
	ctx    *planning.Context
	tl     *timeline.Manager
	opts   Options
	window planning.Window
	now    time.Time
	today  time.Time
}

// searchWindow is where the prioritized pass looks for a slot.
type searchWindow struct {
	min, max time.Time
	occ      timeline.Occupancy
	failure  planning.ConflictType
	period   bool
}

// placeFixed places every fixed occurrence in time order.
func (p *placer) placeFixed(occurrences []fixedOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].at.Before(occurrences[j].at)
	})

	for _, occ := range occurrences {
		t := occ.task
		if t.IsHardConflict() || t.Resolution() == planning.Conflicted {
			continue
		}
		d := t.Task.DurationValue()
		if d <= 0 {
			p.ctx.RecordConflict(t.ID(), planning.ConflictZeroDuration,
				fmt.Sprintf("%q has no duration", t.Task.Name), &occ.at)
			continue
		}

		pieces := p.splitAtMidnight(occ.at, occ.at.Add(d))
		snap := p.tl.Checkpoint()
		failed := false
		for _, piece := range pieces {
			switch r := p.tl.PlaceTask(t.Task, piece.Start, piece.End, timeline.FixedTask).(type) {
			case timeline.Placed:
			case timeline.Blocked:
				p.tl.Rollback(snap)
				failed = true
				at := r.At
				if r.Type == planning.ConflictFixedVsFixed {
					p.ctx.RecordConflict(t.ID(), planning.ConflictFixedVsFixed,
						fmt.Sprintf("%q overlaps another fixed task at %s", t.Task.Name, at.Format("15:04")), &at, r.BlockingTaskID)
				} else {
					p.ctx.RecordConflict(t.ID(), planning.ConflictPlacementError,
						fmt.Sprintf("%q is blocked at %s", t.Task.Name, at.Format("15:04")), &at, r.BlockingTaskID)
				}
			case timeline.Rejected:
				p.tl.Rollback(snap)
				failed = true
				start := piece.Start
				p.ctx.RecordConflict(t.ID(), planning.ConflictPlacementError,
					fmt.Sprintf("cannot place %q: %s", t.Task.Name, r.Reason), &start)
			}
			if failed {
				break
			}
		}
		if failed {
			continue
		}

		for _, piece := range pieces {
			p.ctx.RecordPlacement(t.ID(), piece.Start, piece.End)
			if !p.tl.WithinWorkHours(piece.Start, piece.End) {
				p.ctx.AddNotice(t.ID(), fmt.Sprintf("scheduled outside work hours (%s-%s)",
					piece.Start.Format("15:04"), piece.End.Format("15:04")))
			}
		}
	}
}

// splitAtMidnight cuts [start, end) into one interval per date. Pieces past
// the window end are dropped.
func (p *placer) splitAtMidnight(start, end time.Time) []timeline.Interval {
	var out []timeline.Interval
	for start.Before(end) {
		next := utils.StartOfDay(start).AddDate(0, 0, 1)
		pieceEnd := utils.MinTime(end, next)
		if !start.Before(p.window.End) {
			break
		}
		out = append(out, timeline.Interval{Start: start, End: pieceEnd})
		start = pieceEnd
	}
	return out
}

// placePrioritized searches a slot for one pending task.
func (p *placer) placePrioritized(pt pendingTask) {
	t := pt.task
	if p.ctx.IsPlaced(t.ID()) || t.IsHardConflict() {
		return
	}
	defer p.tl.ResolvePending(t.ID())

	total := t.Task.DurationValue()
	if total <= 0 {
		p.ctx.RecordConflict(t.ID(), planning.ConflictZeroDuration, fmt.Sprintf("%q has no duration", t.Task.Name), nil)
		return
	}

	sw := p.searchWindowFor(pt)
	if !sw.max.After(sw.min) {
		if t.IsOverdue() {
			sw.max = p.window.End
		} else {
			sw.min = p.window.Start
		}
	}
	// An empty window after clamping still goes through the fallback below.
	sw.min = utils.MaxTime(sw.min, p.now)

	placed := p.findAndPlace(t, total, sw.min, sw.max, sw.occ)
	if placed == 0 {
		fmin, fmax := p.ownRange(t.Task)
		if fmin.Before(sw.min) || fmax.After(sw.max) {
			placed = p.findAndPlace(t, total, fmin, fmax, timeline.FlexibleTask)
			if placed > 0 {
				if sw.period {
					p.ctx.MarkFailedPeriod(t.ID())
				}
				p.ctx.AddNotice(t.ID(), "placed outside preferred time/period")
			}
		}
	}

	switch {
	case placed == 0:
		if sw.period {
			p.ctx.MarkFailedPeriod(t.ID())
		}
		p.ctx.RecordConflict(t.ID(), sw.failure, failureReason(t.Task, sw), nil)
	case placed < total:
		p.ctx.AddNotice(t.ID(), fmt.Sprintf("placed %d of %d minutes", int(placed.Minutes()), int(total.Minutes())))
	}
}

func failureReason(task models.Task, sw searchWindow) string {
	switch sw.failure {
	case planning.ConflictCannotFitPeriod:
		return fmt.Sprintf("no free slot for %q in its %s period", task.Name, task.Period)
	case planning.ConflictNoSlotOnDate:
		return fmt.Sprintf("no free slot for %q on %s", task.Name, utils.DateKey(sw.min))
	default:
		return fmt.Sprintf("no free slot for %q in the planning window", task.Name)
	}
}

func (p *placer) searchWindowFor(pt pendingTask) searchWindow {
	t := pt.task
	task := t.Task

	if t.IsOverdue() {
		date, ok := t.ConstraintDate()
		switch {
		case ok && !utils.SameDate(date, p.today):
			sw := searchWindow{occ: timeline.FlexibleTask, failure: planning.ConflictNoSlotOnDate}
			sw.min, sw.max = p.tl.WorkHours(date)
			if task.HasPeriod() {
				ps, pe := periodRange(date, task.Period)
				sw.min, sw.max = utils.MaxTime(sw.min, ps), utils.MinTime(sw.max, pe)
				sw.occ = timeline.PeriodTask
			}
			return sw
		case ok:
			ws, _ := p.tl.WorkHours(p.today)
			return searchWindow{
				min:     utils.MaxTime(p.now, ws),
				max:     p.today.AddDate(0, 0, 1),
				occ:     timeline.FlexibleTask,
				failure: planning.ConflictNoSlotOnDate,
			}
		default:
			return searchWindow{min: p.now, max: p.window.End, occ: timeline.FlexibleTask, failure: planning.ConflictNoSlotInScope}
		}
	}

	switch pt.category {
	case categoryPeriod:
		date := pt.date
		if !p.window.ContainsDate(date) {
			date = p.window.Start
		}
		ws, we := p.tl.WorkHours(date)
		ps, pe := periodRange(date, pt.period)
		return searchWindow{
			min:     utils.MaxTime(ws, ps),
			max:     utils.MinTime(we, pe),
			occ:     timeline.PeriodTask,
			failure: planning.ConflictCannotFitPeriod,
			period:  true,
		}
	case categoryDate:
		sw := searchWindow{occ: timeline.FlexibleTask, failure: planning.ConflictNoSlotOnDate}
		sw.min, sw.max = p.tl.WorkHours(pt.date)
		if task.End != nil {
			sw.max = utils.MinTime(sw.max, *task.End)
		}
		return sw
	default:
		min, max := p.ownRange(task)
		return searchWindow{min: min, max: max, occ: timeline.FlexibleTask, failure: planning.ConflictNoSlotInScope}
	}
}

// ownRange is the task's own start/end clamped to the window and the run clock.
func (p *placer) ownRange(task models.Task) (time.Time, time.Time) {
	min, max := p.window.Start, p.window.End
	if task.Start != nil {
		min = utils.MaxTime(min, *task.Start)
	}
	if task.End != nil {
		max = utils.MinTime(max, *task.End)
	}
	return utils.MaxTime(min, p.now), max
}

func periodRange(date time.Time, period models.DayPeriod) (time.Time, time.Time) {
	switch period {
	case models.PeriodMorning:
		return utils.AtMinutes(date, constants.MorningStartMin), utils.AtMinutes(date, constants.MorningEndMin)
	case models.PeriodEvening:
		return utils.AtMinutes(date, constants.EveningStartMin), utils.AtMinutes(date, constants.EveningEndMin)
	case models.PeriodNight:
		return utils.AtMinutes(date, constants.NightStartMin), utils.AtMinutes(date, constants.NightEndMin)
	default:
		return utils.StartOfDay(date), utils.StartOfDay(date).AddDate(0, 0, 1)
	}
}

// findAndPlace places up to total of the task inside [min, max) and returns
// how much was placed. The whole remainder is tried first; splittable tasks
// then fall back to chunks of at least MinSplitChunk.
func (p *placer) findAndPlace(t *planning.Task, total time.Duration, min, max time.Time, occ timeline.Occupancy) time.Duration {
	remaining := total
	split := p.opts.AllowSplitting && t.Task.Duration.AllowSplitting

	for attempt := 0; remaining > 0 && attempt < constants.MaxPlacementAttempts; attempt++ {
		placed := false
		for _, slot := range p.tl.Candidates(remaining, min, max, p.opts.Heuristic) {
			if p.placeSpan(t, slot.Start, slot.End, occ, split) {
				remaining -= slot.Duration()
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		if !split {
			break
		}

		minChunk := constants.MinSplitChunk
		if remaining < minChunk {
			minChunk = remaining
		}
		for _, seg := range p.tl.FreeSegments(min, max) {
			if seg.Duration() < minChunk {
				continue
			}
			chunk := remaining
			if seg.Duration() < chunk {
				chunk = seg.Duration()
			}
			if p.placeSpan(t, seg.Start, seg.Start.Add(chunk), occ, split) {
				remaining -= chunk
				placed = true
				break
			}
		}
		if !placed {
			break
		}
	}

	if remaining > 0 && remaining < total {
		logger.Debug("partial placement", "task", t.Task.Name, "remaining", remaining)
	}
	return total - remaining
}

// placeSpan places [start, end) for the task, cutting it at midnight when
// split is allowed, and appends a buffer after it.
func (p *placer) placeSpan(t *planning.Task, start, end time.Time, occ timeline.Occupancy, split bool) bool {
	pieces := []timeline.Interval{{Start: start, End: end}}
	if !utils.SameDate(start, end.Add(-time.Nanosecond)) {
		if !split {
			return false
		}
		mid := utils.StartOfDay(start).AddDate(0, 0, 1)
		pieces = []timeline.Interval{{Start: start, End: mid}, {Start: mid, End: end}}
	}

	snap := p.tl.Checkpoint()
	for _, piece := range pieces {
		switch r := p.tl.PlaceTask(t.Task, piece.Start, piece.End, occ).(type) {
		case timeline.Placed:
		case timeline.Blocked:
			logger.Debug("candidate blocked", "task", t.Task.Name, "at", r.At, "by", r.BlockingTaskID)
			p.tl.Rollback(snap)
			return false
		case timeline.Rejected:
			logger.Debug("candidate rejected", "task", t.Task.Name, "reason", r.Reason)
			p.tl.Rollback(snap)
			return false
		}
	}

	for _, piece := range pieces {
		p.ctx.RecordPlacement(t.ID(), piece.Start, piece.End)
	}
	p.tl.AddBufferOrBreak(end, t.Task)
	return true
}

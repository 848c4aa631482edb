package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/utils"
)

// DaySchedule is the block layout of one calendar date. Blocks are sorted,
// contiguous and cover [00:00, 24:00) of Date.
type DaySchedule struct {
	Date      time.Time
	WorkStart time.Time
	WorkEnd   time.Time
	Blocks    []Block

	// period -> ids of tasks still waiting for a slot in that period
	pending map[models.DayPeriod][]string
}

func newDaySchedule(date time.Time, workStartMin, workEndMin int) *DaySchedule {
	day := utils.StartOfDay(date)
	next := day.AddDate(0, 0, 1)
	ws := utils.AtMinutes(day, workStartMin)
	we := utils.AtMinutes(day, workEndMin)

	d := &DaySchedule{Date: day, pending: make(map[models.DayPeriod][]string)}
	switch {
	case workStartMin == workEndMin:
		d.WorkStart, d.WorkEnd = day, next
		d.Blocks = []Block{{Start: day, End: next, Occupancy: Free}}
	case workStartMin < workEndMin:
		d.WorkStart, d.WorkEnd = ws, we
		d.Blocks = []Block{
			{Start: day, End: ws, Occupancy: OutOfHours},
			{Start: ws, End: we, Occupancy: Free},
			{Start: we, End: next, Occupancy: OutOfHours},
		}
	default:
		// The work window wraps past midnight into the next date.
		d.WorkStart, d.WorkEnd = ws, utils.AtMinutes(next, workEndMin)
		d.Blocks = []Block{
			{Start: day, End: we, Occupancy: Free},
			{Start: we, End: ws, Occupancy: OutOfHours},
			{Start: ws, End: next, Occupancy: Free},
		}
	}
	d.Blocks = compact(d.Blocks)
	return d
}

// Key is the YYYY-MM-DD form of Date.
func (d *DaySchedule) Key() string {
	return utils.DateKey(d.Date)
}

// PendingPeriod returns the ids still waiting for a slot in period.
func (d *DaySchedule) PendingPeriod(period models.DayPeriod) []string {
	return append([]string(nil), d.pending[period]...)
}

func (d *DaySchedule) removePending(taskID string) {
	for period, ids := range d.pending {
		kept := ids[:0]
		for _, id := range ids {
			if id != taskID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(d.pending, period)
		} else {
			d.pending[period] = kept
		}
	}
}

// Validate checks that the blocks cover the whole date without gaps or overlaps.
func (d *DaySchedule) Validate() error {
	if len(d.Blocks) == 0 {
		return fmt.Errorf("%s: no blocks", d.Key())
	}
	cursor := d.Date
	for i, b := range d.Blocks {
		if !b.Start.Equal(cursor) {
			return fmt.Errorf("%s: block %d starts at %s, expected %s", d.Key(), i, b.Start.Format("15:04"), cursor.Format("15:04"))
		}
		if !b.End.After(b.Start) {
			return fmt.Errorf("%s: block %d is empty", d.Key(), i)
		}
		if i > 0 {
			prev := d.Blocks[i-1]
			if !prev.Occupancy.IsTask() && prev.Occupancy == b.Occupancy {
				return fmt.Errorf("%s: blocks %d and %d should be merged", d.Key(), i-1, i)
			}
		}
		cursor = b.End
	}
	if !cursor.Equal(d.Date.AddDate(0, 0, 1)) {
		return fmt.Errorf("%s: blocks end at %s", d.Key(), cursor.Format("15:04"))
	}
	return nil
}

// blockers returns the blocks in [start, end) that a new block of occupancy
// occ may not replace.
func (d *DaySchedule) blockers(start, end time.Time, occ Occupancy) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if !b.overlaps(start, end) {
			continue
		}
		switch b.Occupancy {
		case Free:
			continue
		case Buffer:
			if occ != FixedTask {
				continue
			}
		case OutOfHours:
			if occ == FixedTask {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// splice cuts every block overlapping nb at its boundaries and inserts nb.
func (d *DaySchedule) splice(nb Block) {
	out := make([]Block, 0, len(d.Blocks)+2)
	for _, b := range d.Blocks {
		if !b.overlaps(nb.Start, nb.End) {
			out = append(out, b)
			continue
		}
		if b.Start.Before(nb.Start) {
			head := b
			head.End = nb.Start
			out = append(out, head)
		}
		if b.End.After(nb.End) {
			tail := b
			tail.Start = nb.End
			out = append(out, tail)
		}
	}
	out = append(out, nb)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	d.Blocks = compact(out)
}

// isFree reports whether [start, end) lies inside a single free block.
func (d *DaySchedule) isFree(start, end time.Time) bool {
	for _, b := range d.Blocks {
		if b.Occupancy == Free && !b.Start.After(start) && !b.End.Before(end) {
			return true
		}
	}
	return false
}

// compact drops empty blocks and merges adjacent non-task blocks of equal occupancy.
func compact(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if !b.End.After(b.Start) {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if !b.Occupancy.IsTask() && last.Occupancy == b.Occupancy && last.End.Equal(b.Start) {
				last.End = b.End
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

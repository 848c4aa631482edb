package planning

import "time"

// Window is the planning horizon. Start is midnight of the first date and End
// is midnight of the day after the last date, so the interval is [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window covering the calendar dates first through last inclusive.
func NewWindow(first, last time.Time) Window {
	fy, fm, fd := first.Date()
	ly, lm, ld := last.Date()
	return Window{
		Start: time.Date(fy, fm, fd, 0, 0, 0, 0, first.Location()),
		End:   time.Date(ly, lm, ld+1, 0, 0, 0, 0, last.Location()),
	}
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ContainsDate reports whether the calendar date of t is one of the window's dates.
func (w Window) ContainsDate(t time.Time) bool {
	y, m, d := t.Date()
	return w.Contains(time.Date(y, m, d, 0, 0, 0, 0, w.Start.Location()))
}

// LastDay is midnight of the final date in the window.
func (w Window) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

// Days lists midnight of every date in the window, in order.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

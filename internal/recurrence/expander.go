// Package recurrence turns a task's recurrence plan into the concrete
// occurrence timestamps that fall inside a planning window.
package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
)

var (
	// ErrNoStart is returned for a recurring task without a start time.
	ErrNoStart = errors.New("recurring task has no start time")
	// ErrInvalidPlan is returned when a recurrence plan cannot be turned into a rule.
	ErrInvalidPlan = errors.New("invalid recurrence plan")
)

// Expansion is the result of expanding one task over a window.
type Expansion struct {
	Occurrences []time.Time
	// Truncated is set when more occurrences exist in the window than were returned.
	Truncated bool
}

// Expand returns the sorted, de-duplicated occurrences of task inside w.
// A task without a recurrence plan yields its own start when that start lies
// in the window.
func Expand(task models.Task, w planning.Window) (Expansion, error) {
	if task.Recurrence == nil {
		if task.Start != nil && w.Contains(*task.Start) {
			return Expansion{Occurrences: []time.Time{*task.Start}}, nil
		}
		return Expansion{}, nil
	}
	if task.Start == nil {
		return Expansion{}, ErrNoStart
	}

	rule, err := buildRule(*task.Start, task.Recurrence)
	if err != nil {
		return Expansion{}, err
	}

	var out []time.Time
	for _, occ := range rule.Between(w.Start, w.End, true) {
		if !occ.Before(w.End) {
			break
		}
		if len(out) == constants.MaxRecurrenceOccurrences {
			return Expansion{Occurrences: normalize(out), Truncated: true}, nil
		}
		out = append(out, occ)
	}
	return Expansion{Occurrences: normalize(out)}, nil
}

func buildRule(start time.Time, plan *models.RecurrencePlan) (*rrule.RRule, error) {
	freq, err := frequency(plan)
	if err != nil {
		return nil, err
	}

	interval := plan.Interval
	if interval < 0 {
		return nil, fmt.Errorf("%w: negative interval %d", ErrInvalidPlan, interval)
	}
	if interval == 0 {
		interval = 1
	}
	if plan.Count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidPlan, plan.Count)
	}

	opt := rrule.ROption{
		Freq:     freq,
		Dtstart:  start,
		Interval: interval,
	}
	if plan.EndDate != nil {
		y, m, d := plan.EndDate.In(start.Location()).Date()
		opt.Until = time.Date(y, m, d, 23, 59, 59, 0, start.Location())
	} else if plan.Count > 0 {
		opt.Count = plan.Count
	}

	for _, wd := range plan.Weekdays {
		rw, err := weekday(wd)
		if err != nil {
			return nil, err
		}
		opt.Byweekday = append(opt.Byweekday, rw)
	}
	for _, md := range plan.MonthDays {
		if md == 0 || md < -31 || md > 31 {
			return nil, fmt.Errorf("%w: month day %d out of range", ErrInvalidPlan, md)
		}
	}
	opt.Bymonthday = append(opt.Bymonthday, plan.MonthDays...)
	for _, mo := range plan.Months {
		if mo < 1 || mo > 12 {
			return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidPlan, mo)
		}
	}
	opt.Bymonth = append(opt.Bymonth, plan.Months...)
	for _, pos := range plan.SetPositions {
		if pos == 0 || pos < -366 || pos > 366 {
			return nil, fmt.Errorf("%w: set position %d out of range", ErrInvalidPlan, pos)
		}
	}
	opt.Bysetpos = append(opt.Bysetpos, plan.SetPositions...)

	if len(opt.Byweekday) == 0 {
		if (freq == rrule.MONTHLY || freq == rrule.YEARLY) && len(opt.Bymonthday) == 0 {
			opt.Bymonthday = []int{start.Day()}
		}
		if freq == rrule.YEARLY && len(opt.Bymonth) == 0 {
			opt.Bymonth = []int{int(start.Month())}
		}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return rule, nil
}

func frequency(plan *models.RecurrencePlan) (rrule.Frequency, error) {
	switch plan.Frequency {
	case models.FrequencyDaily:
		return rrule.DAILY, nil
	case models.FrequencyWeekly:
		return rrule.WEEKLY, nil
	case models.FrequencyMonthly:
		return rrule.MONTHLY, nil
	case models.FrequencyYearly:
		return rrule.YEARLY, nil
	case models.FrequencyCustom:
		switch plan.Unit {
		case models.UnitDays:
			return rrule.DAILY, nil
		case models.UnitWeeks:
			return rrule.WEEKLY, nil
		case models.UnitMonths:
			return rrule.MONTHLY, nil
		case models.UnitYears:
			return rrule.YEARLY, nil
		}
		return 0, fmt.Errorf("%w: unknown custom unit %q", ErrInvalidPlan, plan.Unit)
	}
	return 0, fmt.Errorf("%w: unknown frequency %q", ErrInvalidPlan, plan.Frequency)
}

func weekday(wd time.Weekday) (rrule.Weekday, error) {
	switch wd {
	case time.Monday:
		return rrule.MO, nil
	case time.Tuesday:
		return rrule.TU, nil
	case time.Wednesday:
		return rrule.WE, nil
	case time.Thursday:
		return rrule.TH, nil
	case time.Friday:
		return rrule.FR, nil
	case time.Saturday:
		return rrule.SA, nil
	case time.Sunday:
		return rrule.SU, nil
	}
	return rrule.Weekday{}, fmt.Errorf("%w: weekday %d out of range", ErrInvalidPlan, wd)
}

func normalize(in []time.Time) []time.Time {
	sort.Slice(in, func(i, j int) bool { return in[i].Before(in[j]) })
	out := in[:0]
	for i, t := range in {
		if i > 0 && t.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, t)
	}
	return out
}

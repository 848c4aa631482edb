package timeline

import (
	"sort"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/utils"
)

// FreeSegments returns the free time inside [min, max). Free blocks that
// touch across midnight are joined into one segment.
func (m *Manager) FreeSegments(min, max time.Time) []Interval {
	if !min.Before(max) {
		return nil
	}
	var merged []Interval
	for _, d := range m.days {
		if !d.Date.Before(max) || !min.Before(d.Date.AddDate(0, 0, 1)) {
			continue
		}
		for _, b := range d.Blocks {
			if b.Occupancy != Free {
				continue
			}
			if n := len(merged); n > 0 && merged[n-1].End.Equal(b.Start) {
				merged[n-1].End = b.End
				continue
			}
			merged = append(merged, Interval{Start: b.Start, End: b.End})
		}
	}

	var out []Interval
	for _, iv := range merged {
		start := utils.MaxTime(iv.Start, min)
		end := utils.MinTime(iv.End, max)
		if start.Before(end) {
			out = append(out, Interval{Start: start, End: end})
		}
	}
	return out
}

// Candidates returns every slot of length d inside [min, max), one per free
// segment, ordered by preference under h.
func (m *Manager) Candidates(d time.Duration, min, max time.Time, h models.PlacementHeuristic) []Interval {
	if d <= 0 {
		return nil
	}
	type candidate struct {
		slot     Interval
		leftover time.Duration
	}
	var cands []candidate
	for _, seg := range m.FreeSegments(min, max) {
		if seg.Duration() < d {
			continue
		}
		cands = append(cands, candidate{
			slot:     Interval{Start: seg.Start, End: seg.Start.Add(d)},
			leftover: seg.Duration() - d,
		})
	}
	if h == models.HeuristicBestFit {
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].leftover < cands[j].leftover
		})
	}

	out := make([]Interval, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.slot)
	}
	return out
}

// FindSlot returns the preferred start time for a block of length d inside
// [min, max), or false when no free segment can hold it.
func (m *Manager) FindSlot(d time.Duration, min, max time.Time, h models.PlacementHeuristic) (time.Time, bool) {
	cands := m.Candidates(d, min, max, h)
	if len(cands) == 0 {
		return time.Time{}, false
	}
	return cands[0].Start, true
}

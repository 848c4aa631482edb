package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/planning"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func clock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func newManager(t *testing.T, ws, we int, org models.DayOrganization, days int) *Manager {
	t.Helper()
	m := New(Config{WorkStartMin: ws, WorkEndMin: we, Organization: org})
	m.Initialize(planning.NewWindow(monday, monday.AddDate(0, 0, days-1)), nil)
	return m
}

func requireValid(t *testing.T, m *Manager) {
	t.Helper()
	for _, d := range m.Days() {
		require.NoError(t, d.Validate())
	}
}

func task(id string, minutes int) models.Task {
	return models.Task{ID: id, Name: id, Priority: models.PriorityMedium, Duration: models.TaskDuration{Minutes: minutes}}
}

func TestInitialize_Layouts(t *testing.T) {
	tests := []struct {
		name   string
		ws, we int
		want   []Occupancy
	}{
		{name: "regular day", ws: 9 * 60, we: 17 * 60, want: []Occupancy{OutOfHours, Free, OutOfHours}},
		{name: "wrapping night shift", ws: 22 * 60, we: 6 * 60, want: []Occupancy{Free, OutOfHours, Free}},
		{name: "all day", ws: 0, we: 0, want: []Occupancy{Free}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t, tt.ws, tt.we, models.OrganizationCompact, 2)
			requireValid(t, m)

			days := m.Days()
			require.Len(t, days, 2)
			var got []Occupancy
			for _, b := range days[0].Blocks {
				got = append(got, b.Occupancy)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitialize_WrappingWorkEndIsNextDay(t *testing.T) {
	m := newManager(t, 22*60, 6*60, models.OrganizationCompact, 1)
	d := m.Days()[0]

	assert.Equal(t, clock(monday, 22, 0), d.WorkStart)
	assert.Equal(t, clock(monday.AddDate(0, 0, 1), 6, 0), d.WorkEnd)
}

func TestInitialize_BalancedBreaks(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationBalanced, 1)
	requireValid(t, m)

	var buffers []string
	for _, b := range m.Days()[0].Blocks {
		if b.Occupancy == Buffer {
			buffers = append(buffers, b.Start.Format("15:04")+"-"+b.End.Format("15:04"))
		}
	}
	assert.Equal(t, []string{"12:00-12:15", "12:30-13:00", "15:00-15:15"}, buffers)
}

func TestInitialize_RecordsPendingPeriods(t *testing.T) {
	m := New(Config{WorkStartMin: 9 * 60, WorkEndMin: 17 * 60, Organization: models.OrganizationCompact})
	m.Initialize(planning.NewWindow(monday, monday), map[string]map[models.DayPeriod][]string{
		"2026-03-02": {models.PeriodMorning: {"a", "b"}},
		"2026-04-01": {models.PeriodNight: {"c"}},
	})

	assert.Equal(t, []string{"a", "b"}, m.PendingPeriodTasks())

	m.ResolvePending("a")
	assert.Equal(t, []string{"b"}, m.PendingPeriodTasks())
}

func TestPlaceTask_SplicesAndKeepsCoverage(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)

	res := m.PlaceTask(task("a", 60), clock(monday, 10, 0), clock(monday, 11, 0), FlexibleTask)
	placed, ok := res.(Placed)
	require.True(t, ok, "got %#v", res)
	assert.Equal(t, "a", placed.Block.TaskID)
	requireValid(t, m)

	blocks := m.Days()[0].Blocks
	require.Len(t, blocks, 5)
	assert.Equal(t, Free, blocks[1].Occupancy)
	assert.Equal(t, FlexibleTask, blocks[2].Occupancy)
	assert.Equal(t, Free, blocks[3].Occupancy)
}

func TestPlaceTask_AdjacentTasksAreNotMerged(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)

	m.PlaceTask(task("a", 60), clock(monday, 9, 0), clock(monday, 10, 0), FlexibleTask)
	m.PlaceTask(task("b", 60), clock(monday, 10, 0), clock(monday, 11, 0), FlexibleTask)
	requireValid(t, m)

	var ids []string
	for _, b := range m.Days()[0].Blocks {
		if b.Occupancy.IsTask() {
			ids = append(ids, b.TaskID)
		}
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestPlaceTask_Blockers(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)
	require.IsType(t, Placed{}, m.PlaceTask(task("fixed", 60), clock(monday, 9, 0), clock(monday, 10, 0), FixedTask))
	require.IsType(t, Placed{}, m.PlaceTask(task("flex", 60), clock(monday, 11, 0), clock(monday, 12, 0), FlexibleTask))

	tests := []struct {
		name       string
		start, end time.Time
		occ        Occupancy
		wantType   planning.ConflictType
		wantID     string
		wantAt     time.Time
	}{
		{
			name: "fixed over fixed", start: clock(monday, 9, 30), end: clock(monday, 10, 30), occ: FixedTask,
			wantType: planning.ConflictFixedVsFixed, wantID: "fixed", wantAt: clock(monday, 9, 30),
		},
		{
			name: "fixed over flexible", start: clock(monday, 10, 30), end: clock(monday, 11, 30), occ: FixedTask,
			wantType: planning.ConflictPlacementError, wantID: "flex", wantAt: clock(monday, 11, 0),
		},
		{
			name: "flexible over out of hours", start: clock(monday, 7, 0), end: clock(monday, 8, 0), occ: FlexibleTask,
			wantType: planning.ConflictPlacementError, wantAt: clock(monday, 7, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.PlaceTask(task("new", 60), tt.start, tt.end, tt.occ)
			blocked, ok := res.(Blocked)
			require.True(t, ok, "got %#v", res)
			assert.Equal(t, tt.wantType, blocked.Type)
			assert.Equal(t, tt.wantID, blocked.BlockingTaskID)
			assert.Equal(t, tt.wantAt, blocked.At)
		})
	}
}

func TestPlaceTask_FixedOverridesOutOfHours(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)

	res := m.PlaceTask(task("early", 60), clock(monday, 7, 0), clock(monday, 8, 0), FixedTask)
	require.IsType(t, Placed{}, res)
	requireValid(t, m)
	assert.False(t, m.WithinWorkHours(clock(monday, 7, 0), clock(monday, 8, 0)))
}

func TestPlaceTask_Rejections(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 2)

	for _, tc := range []struct {
		name       string
		start, end time.Time
	}{
		{"empty span", clock(monday, 9, 0), clock(monday, 9, 0)},
		{"crosses midnight", clock(monday, 23, 0), clock(monday.AddDate(0, 0, 1), 1, 0)},
		{"outside window", clock(monday.AddDate(0, 0, 5), 9, 0), clock(monday.AddDate(0, 0, 5), 10, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.IsType(t, Rejected{}, m.PlaceTask(task("x", 60), tc.start, tc.end, FixedTask))
		})
	}

	// A block ending exactly at midnight stays on one date.
	assert.IsType(t, Placed{}, m.PlaceTask(task("late", 60), clock(monday, 23, 0), monday.AddDate(0, 0, 1), FixedTask))
}

func TestFindSlot_Heuristics(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)
	// Leaves 09:00-10:00 (60m) and 10:30-17:00 (390m) free.
	m.PlaceTask(task("busy", 30), clock(monday, 10, 0), clock(monday, 10, 30), FixedTask)

	start, ok := m.FindSlot(45*time.Minute, monday, monday.AddDate(0, 0, 1), models.HeuristicEarliestFit)
	require.True(t, ok)
	assert.Equal(t, clock(monday, 9, 0), start)

	start, ok = m.FindSlot(90*time.Minute, monday, monday.AddDate(0, 0, 1), models.HeuristicEarliestFit)
	require.True(t, ok)
	assert.Equal(t, clock(monday, 10, 30), start)

	// Best fit prefers the segment with the least space left over.
	m.PlaceTask(task("busy2", 60), clock(monday, 12, 0), clock(monday, 13, 0), FixedTask)
	start, ok = m.FindSlot(60*time.Minute, clock(monday, 9, 30), monday.AddDate(0, 0, 1), models.HeuristicBestFit)
	require.True(t, ok)
	assert.Equal(t, clock(monday, 10, 30), start)

	_, ok = m.FindSlot(8*time.Hour, monday, monday.AddDate(0, 0, 1), models.HeuristicEarliestFit)
	assert.False(t, ok)
}

func TestFreeSegments_JoinAcrossMidnight(t *testing.T) {
	m := newManager(t, 22*60, 6*60, models.OrganizationCompact, 2)

	segs := m.FreeSegments(clock(monday, 20, 0), clock(monday.AddDate(0, 0, 1), 3, 0))
	require.Len(t, segs, 1)
	assert.Equal(t, clock(monday, 22, 0), segs[0].Start)
	assert.Equal(t, clock(monday.AddDate(0, 0, 1), 3, 0), segs[0].End)
}

func TestAddBufferOrBreak(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationBuffered, 1)

	long := task("long", 120)
	m.PlaceTask(long, clock(monday, 9, 0), clock(monday, 11, 0), FlexibleTask)
	require.True(t, m.AddBufferOrBreak(clock(monday, 11, 0), long))
	requireValid(t, m)

	var buffer Block
	for _, b := range m.Days()[0].Blocks {
		if b.Occupancy == Buffer {
			buffer = b
		}
	}
	assert.Equal(t, clock(monday, 11, 0), buffer.Start)
	assert.Equal(t, clock(monday, 11, 15), buffer.End)

	// No room before work end.
	late := task("late", 30)
	m.PlaceTask(late, clock(monday, 16, 30), clock(monday, 17, 0), FlexibleTask)
	assert.False(t, m.AddBufferOrBreak(clock(monday, 17, 0), late))

	compact := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)
	assert.False(t, compact.AddBufferOrBreak(clock(monday, 10, 0), long))
}

func TestBufferLength(t *testing.T) {
	high := task("h", 10)
	high.Priority = models.PriorityHigh
	assert.Equal(t, 20*time.Minute, BufferLength(high))
	assert.Equal(t, 15*time.Minute, BufferLength(task("l", 150)))
	assert.Equal(t, 10*time.Minute, BufferLength(task("m", 60)))
	assert.Equal(t, 5*time.Minute, BufferLength(task("s", 20)))
}

func TestPlaceTask_BuffersYieldToFlexibleTasks(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationBalanced, 1)

	res := m.PlaceTask(task("lunch-reading", 60), clock(monday, 12, 0), clock(monday, 13, 0), FlexibleTask)
	require.IsType(t, Placed{}, res)
	requireValid(t, m)
}

func TestPlaceTask_BuffersBlockFixedTasks(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationBalanced, 1)
	before := append([]Block(nil), m.Days()[0].Blocks...)

	res := m.PlaceTask(task("call", 30), clock(monday, 12, 30), clock(monday, 13, 0), FixedTask)
	blocked, ok := res.(Blocked)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, planning.ConflictPlacementError, blocked.Type)
	assert.Empty(t, blocked.BlockingTaskID)
	assert.Equal(t, clock(monday, 12, 30), blocked.At)
	assert.Equal(t, before, m.Days()[0].Blocks)
}

func TestCheckpointRollback(t *testing.T) {
	m := newManager(t, 9*60, 17*60, models.OrganizationCompact, 1)
	snap := m.Checkpoint()
	before := append([]Block(nil), m.Days()[0].Blocks...)

	m.PlaceTask(task("a", 60), clock(monday, 9, 0), clock(monday, 10, 0), FlexibleTask)
	m.Rollback(snap)

	assert.Equal(t, before, m.Days()[0].Blocks)
}

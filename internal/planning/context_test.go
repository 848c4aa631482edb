package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/autoplan/internal/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "a", Name: "Write report", Duration: models.TaskDuration{Minutes: 60}},
		{ID: "b", Name: "Done already", Completed: true},
		{ID: "c", Name: "Call plumber", Duration: models.TaskDuration{Minutes: 15}},
	}
}

func TestNewContext_SkipsCompletedTasks(t *testing.T) {
	ctx := NewContext(sampleTasks())

	tasks := ctx.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID())
	assert.Equal(t, "c", tasks[1].ID())

	_, ok := ctx.Task("b")
	assert.False(t, ok)
}

func TestContext_ResolutionHappensOnce(t *testing.T) {
	ctx := NewContext(sampleTasks())
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	ctx.RecordPlacement("a", start, start.Add(time.Hour))
	ctx.RecordPlacement("a", start.Add(2*time.Hour), start.Add(3*time.Hour))
	ctx.Postpone("a")

	task, _ := ctx.Task("a")
	assert.Equal(t, Placed, task.Resolution())
	assert.False(t, task.IsPostponed())
	assert.Empty(t, ctx.Postponed())
	assert.Len(t, ctx.Scheduled()["2026-03-02"], 2)
}

func TestContext_RecordConflictFlagsHardConflicts(t *testing.T) {
	ctx := NewContext(sampleTasks())
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	ctx.RecordConflict("c", ConflictFixedVsFixed, "overlaps", &at, "a")

	task, _ := ctx.Task("c")
	assert.True(t, task.IsHardConflict())
	assert.Equal(t, Conflicted, task.Resolution())
	assert.True(t, ctx.IsPlaced("c"))
	assert.True(t, ctx.HasConflictFor("c"))
	assert.False(t, ctx.HasConflictFor("a"))

	conflicts := ctx.Conflicts()
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Involves("a"))
	require.NotNil(t, conflicts[0].At)
	assert.Equal(t, at, *conflicts[0].At)
}

func TestContext_SoftConflictDoesNotFlagHard(t *testing.T) {
	ctx := NewContext(sampleTasks())

	ctx.RecordConflict("a", ConflictNoSlotInScope, "no room", nil)

	task, _ := ctx.Task("a")
	assert.False(t, task.IsHardConflict())
	assert.Equal(t, Conflicted, task.Resolution())
}

func TestContext_MarkOverdueClearsManualResolution(t *testing.T) {
	ctx := NewContext(sampleTasks())
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	ctx.MarkOverdue("a", &day)

	task, _ := ctx.Task("a")
	assert.True(t, task.IsOverdue())
	assert.False(t, task.NeedsManualResolution())
	got, ok := task.ConstraintDate()
	require.True(t, ok)
	assert.Equal(t, day, got)
	assert.False(t, ctx.IsPlaced("a"))
}

func TestContext_ManualResolutionAndUnresolved(t *testing.T) {
	ctx := NewContext(sampleTasks())

	ctx.RequireManualResolution("c")

	assert.Len(t, ctx.ManualResolution(), 1)
	unresolved := ctx.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "a", unresolved[0].ID())
}

func TestContext_SortScheduled(t *testing.T) {
	ctx := NewContext(sampleTasks())
	late := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	early := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	ctx.RecordPlacement("a", late, late.Add(time.Hour))
	ctx.RecordPlacement("c", early, early.Add(15*time.Minute))
	ctx.SortScheduled()

	items := ctx.Scheduled()["2026-03-02"]
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].Task.ID)
	assert.Equal(t, "a", items[1].Task.ID)
}

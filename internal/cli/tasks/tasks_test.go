package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/autoplan/internal/cli/clitest"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
)

func TestTaskAddCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TaskAddCmd
		wantErr bool
	}{
		{name: "plain", cmd: TaskAddCmd{Name: "a", Duration: 30, Interval: 1}},
		{name: "negative duration", cmd: TaskAddCmd{Name: "a", Duration: -1, Interval: 1}, wantErr: true},
		{name: "count without repeat", cmd: TaskAddCmd{Name: "a", Count: 3, Interval: 1}, wantErr: true},
		{name: "custom without unit", cmd: TaskAddCmd{Name: "a", Repeat: "custom", Start: "2026-03-02", Interval: 1}, wantErr: true},
		{name: "repeat without start", cmd: TaskAddCmd{Name: "a", Repeat: "daily", Interval: 1}, wantErr: true},
		{name: "zero interval", cmd: TaskAddCmd{Name: "a", Interval: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskAddCmd_Build(t *testing.T) {
	cmd := TaskAddCmd{
		Name:      "Review",
		Duration:  45,
		Split:     true,
		Priority:  "high",
		Start:     "2026-03-02 14:30",
		Period:    "none",
		Repeat:    "weekly",
		Interval:  2,
		Until:     "2026-04-30",
		Weekdays:  "mon,fri",
		MonthDays: "1,-1",
	}

	task, err := cmd.Build(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, models.TaskDuration{Minutes: 45, AllowSplitting: true}, task.Duration)
	require.NotNil(t, task.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC), *task.Start)
	require.NotNil(t, task.Recurrence)
	assert.Equal(t, models.FrequencyWeekly, task.Recurrence.Frequency)
	assert.Equal(t, 2, task.Recurrence.Interval)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, task.Recurrence.Weekdays)
	assert.Equal(t, []int{1, -1}, task.Recurrence.MonthDays)
	require.NotNil(t, task.Recurrence.EndDate)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), *task.Recurrence.EndDate)
}

func TestTaskAddCmd_BuildRejectsBadInput(t *testing.T) {
	_, err := (&TaskAddCmd{Name: "a", Start: "tomorrowish"}).Build(time.UTC)
	assert.Error(t, err)

	_, err = (&TaskAddCmd{Name: "a", Start: "2026-03-02", Repeat: "weekly", Weekdays: "funday"}).Build(time.UTC)
	assert.Error(t, err)
}

func TestTaskLifecycle(t *testing.T) {
	ctx, out := clitest.NewContext(t, true)

	add := &TaskAddCmd{Name: "Write report", Duration: 90, Priority: "medium", Period: "none", Interval: 1, End: "2026-03-04 17:00"}
	require.NoError(t, add.Run(ctx))
	assert.Contains(t, out.String(), `Added task "Write report"`)

	tasks, err := ctx.Store.GetAllTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	id := tasks[0].ID

	out.Reset()
	require.NoError(t, (&TaskListCmd{ShowIDs: true}).Run(ctx))
	assert.Contains(t, out.String(), "Write report - 90m (once, medium priority)")
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "Due: 2026-03-04 17:00")

	require.NoError(t, (&TaskCompleteCmd{ID: id}).Run(ctx))
	out.Reset()
	require.NoError(t, (&TaskListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No tasks found")

	out.Reset()
	require.NoError(t, (&TaskListCmd{All: true}).Run(ctx))
	assert.Contains(t, out.String(), "[x] Write report")

	require.NoError(t, (&TaskDeleteCmd{ID: id}).Run(ctx))
	_, err = ctx.Store.GetTask(id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, (&TaskCompleteCmd{ID: id}).Run(ctx), storage.ErrNotFound)
}

func TestTaskDeleteCmd_Cancelled(t *testing.T) {
	ctx, out := clitest.NewContext(t, false)
	require.NoError(t, ctx.Store.AddTask(models.Task{ID: "keep", Name: "Keep me"}))

	require.NoError(t, (&TaskDeleteCmd{ID: "keep"}).Run(ctx))
	assert.Contains(t, out.String(), "Deletion cancelled.")

	_, err := ctx.Store.GetTask("keep")
	assert.NoError(t, err)
}

func TestTaskAddCmd_RejectsUnknownFrequency(t *testing.T) {
	ctx, _ := clitest.NewContext(t, true)
	err := (&TaskAddCmd{Name: "a", Duration: 10, Priority: "none", Period: "none", Interval: 1, Start: "2026-03-02", Repeat: "hourly"}).Run(ctx)
	assert.Error(t, err)

	tasks, err := ctx.Store.GetAllTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

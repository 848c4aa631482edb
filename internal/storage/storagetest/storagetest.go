// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
)

// Run exercises a freshly initialized provider returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Run("default settings", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, models.DefaultSettings(), got)
	})

	t.Run("save settings", func(t *testing.T) {
		s := newStore(t)
		want := models.DefaultSettings()
		want.DayEnd = "22:30"
		want.Organization = models.OrganizationBalanced
		want.AllowSplitting = false
		require.NoError(t, s.SaveSettings(want))

		got, err := s.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("task round trip", func(t *testing.T) {
		s := newStore(t)
		start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
		until := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		want := models.Task{
			ID:       "task-1",
			Name:     "Standup",
			Priority: models.PriorityHigh,
			Start:    &start,
			Period:   models.PeriodMorning,
			Duration: models.TaskDuration{Minutes: 15, AllowSplitting: true},
			Recurrence: &models.RecurrencePlan{
				Frequency: models.FrequencyWeekly,
				Interval:  1,
				EndDate:   &until,
				Weekdays:  []time.Weekday{time.Monday, time.Wednesday},
			},
		}
		require.NoError(t, s.AddTask(want))

		got, err := s.GetTask("task-1")
		require.NoError(t, err)
		require.NotNil(t, got.Start)
		assert.True(t, start.Equal(*got.Start))
		got.Start = &start
		require.NotNil(t, got.Recurrence)
		require.NotNil(t, got.Recurrence.EndDate)
		assert.True(t, until.Equal(*got.Recurrence.EndDate))
		got.Recurrence.EndDate = &until
		assert.Equal(t, want, got)
	})

	t.Run("add generates an id", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddTask(models.Task{Name: "No id", Duration: models.TaskDuration{Minutes: 10}}))

		tasks, err := s.GetAllTasks()
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.NotEmpty(t, tasks[0].ID)
	})

	t.Run("update task", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddTask(models.Task{ID: "t", Name: "Old", Duration: models.TaskDuration{Minutes: 10}}))
		require.NoError(t, s.UpdateTask(models.Task{ID: "t", Name: "New", Duration: models.TaskDuration{Minutes: 20}}))

		got, err := s.GetTask("t")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Name)
		assert.Equal(t, 20, got.Duration.Minutes)
	})

	t.Run("complete task", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddTask(models.Task{ID: "t", Name: "Done soon"}))
		require.NoError(t, s.CompleteTask("t"))

		got, err := s.GetTask("t")
		require.NoError(t, err)
		assert.True(t, got.Completed)

		assert.ErrorIs(t, s.CompleteTask("missing"), storage.ErrNotFound)
	})

	t.Run("soft delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddTask(models.Task{ID: "keep", Name: "Keep"}))
		require.NoError(t, s.AddTask(models.Task{ID: "drop", Name: "Drop"}))
		require.NoError(t, s.DeleteTask("drop"))

		_, err := s.GetTask("drop")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteTask("drop"), storage.ErrNotFound)

		tasks, err := s.GetAllTasks()
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "keep", tasks[0].ID)
	})

	t.Run("missing plan", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetPlan("2026-03-02")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("plan revisions", func(t *testing.T) {
		s := newStore(t)
		draft := models.DayPlan{
			Date: "2026-03-02",
			Slots: []models.Slot{
				{Start: "10:00", End: "11:00", TaskID: "b", Status: models.SlotStatusPlanned},
				{Start: "09:00", End: "09:30", TaskID: "a", Status: models.SlotStatusPlanned},
			},
		}
		require.NoError(t, s.SavePlan(draft))

		got, err := s.GetPlan("2026-03-02")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Revision)
		require.Len(t, got.Slots, 2)
		assert.Equal(t, "a", got.Slots[0].TaskID)

		// An unaccepted revision is overwritten.
		draft.Slots = draft.Slots[:1]
		require.NoError(t, s.SavePlan(draft))
		got, err = s.GetPlan("2026-03-02")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Revision)
		assert.Len(t, got.Slots, 1)

		// Accepting locks the revision, the next save starts a new one.
		accepted := storage.Timestamp()
		got.AcceptedAt = &accepted
		require.NoError(t, s.SavePlan(got))
		got, err = s.GetPlan("2026-03-02")
		require.NoError(t, err)
		require.NotNil(t, got.AcceptedAt)

		draft.Revision = 0
		require.NoError(t, s.SavePlan(draft))
		got, err = s.GetPlan("2026-03-02")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Revision)
		assert.Nil(t, got.AcceptedAt)
	})

	t.Run("accepted revision is immutable", func(t *testing.T) {
		s := newStore(t)
		accepted := storage.Timestamp()
		require.NoError(t, s.SavePlan(models.DayPlan{Date: "2026-03-03", AcceptedAt: &accepted}))

		err := s.SavePlan(models.DayPlan{Date: "2026-03-03", Revision: 1})
		assert.Error(t, err)
	})

	t.Run("deleted plans cannot be saved", func(t *testing.T) {
		s := newStore(t)
		deleted := storage.Timestamp()
		assert.Error(t, s.SavePlan(models.DayPlan{Date: "2026-03-04", DeletedAt: &deleted}))
	})
}

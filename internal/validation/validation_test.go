package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
)

func countType(result ValidationResult, typ ConflictType) int {
	n := 0
	for _, c := range result.Conflicts {
		if c.Type == typ {
			n++
		}
	}
	return n
}

func TestValidateTasks_Clean(t *testing.T) {
	validator := New()

	tasks := []models.Task{
		{ID: "1", Name: "Task A", Priority: models.PriorityHigh, Duration: models.TaskDuration{Minutes: 30}},
		{ID: "2", Name: "Task B", Duration: models.TaskDuration{Minutes: 0}},
	}

	result := validator.ValidateTasks(tasks)
	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got %s", result.FormatReport())
	}
	if err := result.Err(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestValidateTasks_DuplicateNamesAreNotFatal(t *testing.T) {
	validator := New()

	tasks := []models.Task{
		{ID: "1", Name: "Task A"},
		{ID: "2", Name: "Task B"},
		{ID: "3", Name: "Task A"},
	}

	result := validator.ValidateTasks(tasks)

	if countType(result, ConflictDuplicateTaskName) != 1 {
		t.Fatalf("Expected one duplicate name conflict, got %s", result.FormatReport())
	}
	if err := result.Err(); err != nil {
		t.Errorf("Duplicate names should not be fatal, got %v", err)
	}
}

func TestValidateTasks_StructuralProblems(t *testing.T) {
	validator := New()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	tasks := []models.Task{
		{ID: "", Name: "No id"},
		{ID: "dup", Name: "First"},
		{ID: "dup", Name: "Second"},
		{ID: "neg", Name: "Negative", Duration: models.TaskDuration{Minutes: -5}},
		{ID: "pri", Name: "Bad priority", Priority: "urgent"},
		{ID: "per", Name: "Bad period", Period: "afternoon"},
		{ID: "rev", Name: "Backwards", Start: &start, End: &end},
		{ID: "rec", Name: "Bad recurrence", Recurrence: &models.RecurrencePlan{Frequency: "hourly"}},
		{ID: "unit", Name: "Bad unit", Recurrence: &models.RecurrencePlan{Frequency: models.FrequencyCustom}},
	}

	result := validator.ValidateTasks(tasks)

	checks := map[ConflictType]int{
		ConflictMissingTaskID:    1,
		ConflictDuplicateTaskID:  1,
		ConflictNegativeDuration: 1,
		ConflictUnknownValue:     4,
		ConflictInvalidDateTime:  1,
	}
	for typ, want := range checks {
		if got := countType(result, typ); got != want {
			t.Errorf("Expected %d %s conflicts, got %d", want, typ, got)
		}
	}

	err := result.Err()
	if err == nil {
		t.Fatal("Expected an error for structural problems")
	}
	if !strings.Contains(err.Error(), "negative duration") {
		t.Errorf("Expected error to mention negative duration, got %v", err)
	}
}

func TestValidateTasks_SkipsDeleted(t *testing.T) {
	validator := New()
	deleted := "2026-01-01T00:00:00Z"

	tasks := []models.Task{
		{ID: "1", Name: "Task A"},
		{ID: "1", Name: "Task A", DeletedAt: &deleted},
	}

	result := validator.ValidateTasks(tasks)
	if result.HasConflicts() {
		t.Errorf("Expected deleted tasks to be ignored, got %s", result.FormatReport())
	}
}

func TestValidatePlan(t *testing.T) {
	validator := New()
	tasks := []models.Task{
		{ID: "a", Name: "Write"},
		{ID: "b", Name: "Read"},
	}

	tests := []struct {
		name  string
		plan  models.DayPlan
		want  ConflictType
		count int
	}{
		{
			name: "clean",
			plan: models.DayPlan{Date: "2026-03-02", Slots: []models.Slot{
				{Start: "09:00", End: "10:00", TaskID: "a"},
				{Start: "23:00", End: "00:00", TaskID: "b"},
			}},
		},
		{
			name: "overlap",
			plan: models.DayPlan{Date: "2026-03-02", Slots: []models.Slot{
				{Start: "09:00", End: "10:30", TaskID: "a"},
				{Start: "10:00", End: "11:00", TaskID: "b"},
			}},
			want:  ConflictOverlappingSlots,
			count: 1,
		},
		{
			name: "missing task",
			plan: models.DayPlan{Date: "2026-03-02", Slots: []models.Slot{
				{Start: "09:00", End: "10:00", TaskID: "ghost"},
			}},
			want:  ConflictMissingTaskID,
			count: 1,
		},
		{
			name:  "bad date",
			plan:  models.DayPlan{Date: "02/03/2026"},
			want:  ConflictInvalidDateTime,
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidatePlan(tt.plan, tasks)
			if tt.count == 0 {
				if result.HasConflicts() {
					t.Errorf("Expected no conflicts, got %s", result.FormatReport())
				}
				return
			}
			if got := countType(result, tt.want); got != tt.count {
				t.Errorf("Expected %d %s conflicts, got %d (%s)", tt.count, tt.want, got, result.FormatReport())
			}
		})
	}
}

package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingTaskID     ConflictType = "missing_task_id"
	ConflictDuplicateTaskID   ConflictType = "duplicate_task_id"
	ConflictDuplicateTaskName ConflictType = "duplicate_task_name"
	ConflictNegativeDuration  ConflictType = "negative_duration"
	ConflictUnknownValue      ConflictType = "unknown_value"
	ConflictInvalidDateTime   ConflictType = "invalid_datetime"
	ConflictOverlappingSlots  ConflictType = "overlapping_slots"
)

// Conflict represents a detected problem in tasks or plans
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	TaskIDs     []string // IDs of tasks involved
}

// Fatal reports whether the conflict makes the task pool unusable for planning.
// Duplicate names are only reported.
func (c Conflict) Fatal() bool {
	return c.Type != ConflictDuplicateTaskName
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Err joins the descriptions of every fatal conflict, or returns nil.
func (vr *ValidationResult) Err() error {
	var msgs []string
	for _, c := range vr.Conflicts {
		if c.Fatal() {
			msgs = append(msgs, c.Description)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator validates tasks and plans for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateTasks checks the structural soundness of a task pool. Deleted
// tasks are ignored.
func (v *Validator) ValidateTasks(tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	ids := make(map[string]int)
	names := make(map[string][]string)
	for _, task := range tasks {
		if task.DeletedAt != nil {
			continue
		}
		if task.ID == "" {
			result.add(ConflictMissingTaskID, fmt.Sprintf("Task %q has no id", task.Name))
			continue
		}
		ids[task.ID]++
		if task.Name != "" {
			names[task.Name] = append(names[task.Name], task.ID)
		}
		v.checkTask(&result, task)
	}

	dupIDs := make([]string, 0)
	for id, n := range ids {
		if n > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	sort.Strings(dupIDs)
	for _, id := range dupIDs {
		result.add(ConflictDuplicateTaskID, fmt.Sprintf("Task id %s is used %d times", id, ids[id]), id)
	}

	dupNames := make([]string, 0)
	for name, taskIDs := range names {
		if len(taskIDs) > 1 {
			dupNames = append(dupNames, name)
		}
	}
	sort.Strings(dupNames)
	for _, name := range dupNames {
		result.add(ConflictDuplicateTaskName, fmt.Sprintf("Duplicate task name: %q (IDs: %v)", name, names[name]), names[name]...)
	}

	return result
}

func (v *Validator) checkTask(result *ValidationResult, task models.Task) {
	if task.Duration.Minutes < 0 {
		result.add(ConflictNegativeDuration, fmt.Sprintf("Task %q has negative duration %d", task.Name, task.Duration.Minutes), task.ID)
	}
	if !task.Priority.Valid() {
		result.add(ConflictUnknownValue, fmt.Sprintf("Task %q has unknown priority %q", task.Name, task.Priority), task.ID)
	}
	if !task.Period.Valid() {
		result.add(ConflictUnknownValue, fmt.Sprintf("Task %q has unknown day period %q", task.Name, task.Period), task.ID)
	}
	if task.Start != nil && task.End != nil && task.End.Before(*task.Start) {
		result.add(ConflictInvalidDateTime, fmt.Sprintf("Task %q ends (%s) before it starts (%s)",
			task.Name, task.End.Format(time.RFC3339), task.Start.Format(time.RFC3339)), task.ID)
	}
	if r := task.Recurrence; r != nil {
		switch r.Frequency {
		case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
		case models.FrequencyCustom:
			switch r.Unit {
			case models.UnitDays, models.UnitWeeks, models.UnitMonths, models.UnitYears:
			default:
				result.add(ConflictUnknownValue, fmt.Sprintf("Task %q has unknown recurrence unit %q", task.Name, r.Unit), task.ID)
			}
		default:
			result.add(ConflictUnknownValue, fmt.Sprintf("Task %q has unknown recurrence frequency %q", task.Name, r.Frequency), task.ID)
		}
	}
}

// ValidatePlan checks a saved day plan for malformed or overlapping slots.
func (v *Validator) ValidatePlan(plan models.DayPlan, tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if _, err := time.Parse(constants.DateFormat, plan.Date); err != nil {
		result.addOnDate(plan.Date, ConflictInvalidDateTime, fmt.Sprintf("Invalid plan date: %s", plan.Date))
		return result
	}

	taskMap := make(map[string]models.Task)
	for _, task := range tasks {
		if task.DeletedAt == nil {
			taskMap[task.ID] = task
		}
	}

	type span struct {
		start, end int
		slot       models.Slot
	}
	var spans []span
	for _, slot := range plan.Slots {
		if _, ok := taskMap[slot.TaskID]; !ok {
			result.addOnDate(plan.Date, ConflictMissingTaskID, fmt.Sprintf("%s: slot references missing task ID: %s", plan.Date, slot.TaskID))
		}
		start, err1 := utils.ParseTimeToMinutes(slot.Start)
		end, err2 := utils.ParseTimeToMinutes(slot.End)
		if err1 != nil || err2 != nil {
			result.addOnDate(plan.Date, ConflictInvalidDateTime, fmt.Sprintf("%s: invalid slot %s-%s", plan.Date, slot.Start, slot.End))
			continue
		}
		// A slot may end at midnight, stored as 00:00.
		if end == 0 && start > 0 {
			end = 24 * 60
		}
		if end <= start {
			result.addOnDate(plan.Date, ConflictInvalidDateTime, fmt.Sprintf("%s: slot end %s is not after start %s", plan.Date, slot.End, slot.Start))
			continue
		}
		spans = append(spans, span{start: start, end: end, slot: slot})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans) && spans[j].start < spans[i].end; j++ {
			a, b := spans[i].slot, spans[j].slot
			result.addOnDate(plan.Date, ConflictOverlappingSlots,
				fmt.Sprintf("%s: %s-%s %q overlaps %q", plan.Date, a.Start, a.End, taskMap[a.TaskID].Name, taskMap[b.TaskID].Name),
				a.TaskID, b.TaskID)
		}
	}

	return result
}

func (vr *ValidationResult) add(typ ConflictType, description string, taskIDs ...string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: typ, Description: description, TaskIDs: taskIDs})
}

func (vr *ValidationResult) addOnDate(date string, typ ConflictType, description string, taskIDs ...string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: typ, Description: description, Date: date, TaskIDs: taskIDs})
}

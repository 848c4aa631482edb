package plans

import (
	"errors"
	"fmt"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/constants"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
	"github.com/julianstephens/autoplan/internal/utils"
	"github.com/julianstephens/autoplan/internal/validation"
)

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	now, _, err := ctx.Now(settings)
	if err != nil {
		return err
	}
	day, err := cli.ParseDate(c.Date, now)
	if err != nil {
		return err
	}
	date := day.Format(constants.DateFormat)

	plan, err := ctx.Store.GetPlan(date)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.Printf("No saved plan for %s. Run 'autoplan plan --save' first.\n", date)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}

	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}

	title := fmt.Sprintf("Plan for %s (revision %d", date, plan.Revision)
	if plan.AcceptedAt != nil {
		title += ", accepted"
	}
	ctx.Println(cli.HeaderStyle.Render(title + ")"))

	if len(plan.Slots) == 0 {
		ctx.Println("  " + cli.MutedStyle.Render("nothing scheduled"))
	}
	total := 0
	for _, slot := range plan.Slots {
		name, ok := names[slot.TaskID]
		if !ok {
			name = "(unknown task)"
		}
		total += slotMinutes(slot)
		ctx.Printf("  %s  %s\n", cli.TimeStyle.Render(slot.Start+"-"+slot.End), name)
	}
	if total > 0 {
		ctx.Printf("  %s\n", cli.MutedStyle.Render(fmt.Sprintf("%dh%02dm scheduled", total/60, total%60)))
	}

	result := validation.New().ValidatePlan(plan, tasks)
	if result.HasConflicts() {
		ctx.Println()
		ctx.Println(cli.HeaderStyle.Render("Validation warnings:"))
		for _, conflict := range result.Conflicts {
			ctx.Println("  " + cli.ConflictStyle.Render(conflict.Description))
		}
	}
	return nil
}

// slotMinutes returns the length of a slot, treating an end of 00:00 as midnight.
func slotMinutes(slot models.Slot) int {
	start, err1 := utils.ParseTimeToMinutes(slot.Start)
	end, err2 := utils.ParseTimeToMinutes(slot.End)
	if err1 != nil || err2 != nil {
		return 0
	}
	if end == 0 && start > 0 {
		end = 24 * 60
	}
	return end - start
}

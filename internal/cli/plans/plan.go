package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/scheduler"
)

type PlanCmd struct {
	Scope string `help:"Planning window (today|tomorrow|this_week). Defaults to the schedule_scope setting."`
	Save  bool   `help:"Save the plan as dated revisions after confirmation."`
	Yes   bool   `short:"y" help:"Accept without prompting when saving."`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if c.Scope != "" {
		settings.Scope = models.ScheduleScope(c.Scope)
	}
	opts, err := scheduler.OptionsFromSettings(settings)
	if err != nil {
		return err
	}
	now, loc, err := ctx.Now(settings)
	if err != nil {
		return err
	}

	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	plan, err := scheduler.New(opts).GeneratePlan(context.Background(), scheduler.Request{
		Tasks: cli.Localize(tasks, loc),
		Now:   now,
	})
	if err != nil {
		return err
	}

	RenderPlan(ctx.Out, plan)

	if !c.Save {
		return nil
	}

	if !c.Yes {
		ok, err := ctx.Confirm("Accept this plan?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Plan discarded. You can modify tasks and regenerate.")
			return nil
		}
	}

	acceptedAt := now.UTC().Format(time.RFC3339)
	for _, dp := range BuildDayPlans(plan, models.SlotStatusAccepted) {
		dp.AcceptedAt = &acceptedAt
		if err := ctx.Store.SavePlan(dp); err != nil {
			return fmt.Errorf("failed to save plan for %s: %w", dp.Date, err)
		}
		saved, err := ctx.Store.GetPlan(dp.Date)
		if err != nil {
			return fmt.Errorf("failed to read saved plan for %s: %w", dp.Date, err)
		}
		logger.Debug("saved plan", "date", dp.Date, "revision", saved.Revision, "slots", len(dp.Slots))
		ctx.Printf("Saved %s as revision %d\n", dp.Date, saved.Revision)
	}
	return nil
}

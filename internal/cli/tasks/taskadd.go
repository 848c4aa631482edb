package tasks

import (
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
	"github.com/julianstephens/autoplan/internal/validation"
)

type TaskAddCmd struct {
	Name      string `arg:"" help:"Task name."`
	Duration  int    `short:"d" help:"Duration in minutes." required:""`
	Split     bool   `help:"Allow the task to be split across free slots."`
	Priority  string `short:"p" help:"Priority (none|low|medium|high)." enum:"none,low,medium,high" default:"none"`
	Start     string `short:"s" help:"Start as YYYY-MM-DD (date only) or 'YYYY-MM-DD HH:MM' (fixed time)."`
	Period    string `help:"Preferred period of the start date (none|morning|evening|night|allday)." enum:"none,morning,evening,night,allday" default:"none"`
	End       string `short:"e" help:"End or deadline as YYYY-MM-DD or 'YYYY-MM-DD HH:MM'."`
	Repeat    string `short:"r" help:"Recurrence (daily|weekly|monthly|yearly|custom)."`
	Unit      string `help:"Unit for custom recurrence (days|weeks|months|years)."`
	Interval  int    `short:"i" help:"Repeat every N units." default:"1"`
	Count     int    `help:"Stop after N occurrences."`
	Until     string `help:"Last date of the recurrence (YYYY-MM-DD), wins over --count."`
	Weekdays  string `short:"w" help:"Comma-separated weekdays, e.g. mon,wed."`
	MonthDays string `help:"Comma-separated days of month, negative counts from the end."`
	Months    string `help:"Comma-separated months (1-12)."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if c.Repeat == "" && (c.Unit != "" || c.Count != 0 || c.Until != "" || c.Weekdays != "" || c.MonthDays != "" || c.Months != "") {
		return fmt.Errorf("recurrence options require --repeat")
	}
	if c.Repeat == string(models.FrequencyCustom) && c.Unit == "" {
		return fmt.Errorf("--unit is required for custom recurrence")
	}
	if c.Repeat != "" && c.Start == "" {
		return fmt.Errorf("recurring tasks need --start")
	}
	if c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1")
	}
	if c.Count < 0 {
		return fmt.Errorf("count cannot be negative")
	}
	return nil
}

// Build turns the flags into a task in loc.
func (c *TaskAddCmd) Build(loc *time.Location) (models.Task, error) {
	task := models.Task{
		Name:     c.Name,
		Priority: models.Priority(c.Priority),
		Period:   models.DayPeriod(c.Period),
		Duration: models.TaskDuration{Minutes: c.Duration, AllowSplitting: c.Split},
	}

	if c.Start != "" {
		start, err := cli.ParseDateTime(c.Start, loc)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid --start: %w", err)
		}
		task.Start = &start
	}
	if c.End != "" {
		end, err := cli.ParseDateTime(c.End, loc)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid --end: %w", err)
		}
		task.End = &end
	}

	if c.Repeat != "" {
		rec := &models.RecurrencePlan{
			Frequency: models.Frequency(c.Repeat),
			Unit:      models.FrequencyUnit(c.Unit),
			Interval:  c.Interval,
			Count:     c.Count,
		}
		if c.Until != "" {
			until, err := cli.ParseDateTime(c.Until, loc)
			if err != nil {
				return models.Task{}, fmt.Errorf("invalid --until: %w", err)
			}
			rec.EndDate = &until
		}
		var err error
		if c.Weekdays != "" {
			if rec.Weekdays, err = cli.ParseWeekdays(c.Weekdays); err != nil {
				return models.Task{}, err
			}
		}
		if c.MonthDays != "" {
			if rec.MonthDays, err = cli.ParseInts(c.MonthDays, -31, 31); err != nil {
				return models.Task{}, fmt.Errorf("invalid --month-days: %w", err)
			}
		}
		if c.Months != "" {
			if rec.Months, err = cli.ParseInts(c.Months, 1, 12); err != nil {
				return models.Task{}, fmt.Errorf("invalid --months: %w", err)
			}
		}
		task.Recurrence = rec
	}

	return task, nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	_, loc, err := ctx.Now(settings)
	if err != nil {
		return err
	}

	task, err := c.Build(loc)
	if err != nil {
		return err
	}
	if task.ID, err = storage.NewTaskID(); err != nil {
		return err
	}

	existing, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	result := validation.New().ValidateTasks(append(existing, task))
	if err := result.Err(); err != nil {
		return err
	}
	for _, conflict := range result.Conflicts {
		ctx.Println(cli.NoticeStyle.Render("Warning: " + conflict.Description))
	}

	if err := ctx.Store.AddTask(task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	ctx.Printf("Added task %q (%s)\n", task.Name, task.ID)
	return nil
}

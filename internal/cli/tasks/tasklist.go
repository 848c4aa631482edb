package tasks

import (
	"fmt"
	"sort"

	"github.com/julianstephens/autoplan/internal/cli"
	"github.com/julianstephens/autoplan/internal/models"
)

type TaskListCmd struct {
	All     bool `help:"Include completed tasks."`
	ShowIDs bool `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })

	shown := 0
	for _, task := range tasks {
		if task.Completed && !c.All {
			continue
		}
		if shown == 0 {
			ctx.Println(cli.HeaderStyle.Render("Tasks:"))
		}
		shown++
		ctx.Println("  " + formatTask(task, c.ShowIDs))
	}
	if shown == 0 {
		ctx.Println("No tasks found")
	}
	return nil
}

func formatTask(task models.Task, showID bool) string {
	status := " "
	if task.Completed {
		status = "x"
	}
	priority := task.Priority
	if priority == "" {
		priority = models.PriorityNone
	}

	line := fmt.Sprintf("[%s] %s - %dm (%s, %s priority", status, task.Name, task.Duration.Minutes,
		cli.FormatRecurrence(task.Recurrence), priority)
	if task.Duration.AllowSplitting {
		line += ", splittable"
	}
	line += ")"
	if showID {
		line += fmt.Sprintf(" (ID: %s)", task.ID)
	}

	switch {
	case task.HasExactStart():
		line += "\n      Starts: " + task.Start.Format("2006-01-02 15:04")
	case task.Start != nil:
		line += "\n      On: " + task.Start.Format("2006-01-02")
		if task.Period.IsSpecific() {
			line += " (" + string(task.Period) + ")"
		}
	}
	if task.End != nil {
		line += "\n      Due: " + task.End.Format("2006-01-02 15:04")
	}
	return line
}

package tasks

import (
	"fmt"

	"github.com/julianstephens/autoplan/internal/cli"
)

type TaskCompleteCmd struct {
	ID string `arg:"" help:"Task ID to mark as completed."`
}

func (c *TaskCompleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.CompleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	ctx.Printf("Completed task %s\n", c.ID)
	return nil
}

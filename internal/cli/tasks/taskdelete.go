package tasks

import (
	"fmt"

	"github.com/julianstephens/autoplan/internal/cli"
)

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete task %q?", task.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.Printf("Deleted task %q\n", task.Name)
	return nil
}

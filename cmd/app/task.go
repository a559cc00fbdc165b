package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/output"
)

func taskListCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasklist",
		Usage: "Group tasks under a plan",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Append a task list to a plan",
				ArgsUsage: "<plan> <name>",
				Action:    taskListCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a task list and its tasks",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    taskListDelete,
			},
		},
	}
}

func taskCommand() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Manage tasks inside a task list",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Append a task to a task list",
				ArgsUsage: "<tasklist-id> <content>",
				Action:    taskAdd,
			},
			{
				Name:      "list",
				Usage:     "List one task list's tasks",
				ArgsUsage: "<tasklist-id>",
				Action:    taskList,
			},
			{
				Name:      "done",
				Usage:     "Mark a task done",
				ArgsUsage: "<task-id>",
				Action:    taskDone,
			},
			{
				Name:      "delete",
				Usage:     "Delete a task",
				ArgsUsage: "<task-id>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    taskDelete,
			},
		},
	}
}

func taskListCreate(ctx context.Context, cmd *cli.Command) error {
	planRef, err := requireArg(cmd, 0, "plan")
	if err != nil {
		return err
	}
	name, err := requireArg(cmd, 1, "name")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	list, err := e.svc.CreateTaskList(ctx, planRef, name)
	if err != nil {
		return exitErr(err)
	}
	detail, err := e.svc.GetPlanDetail(ctx, strconv.FormatInt(list.PlanID, 10))
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPlanRecord(*detail))
}

func taskListDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireIDArg(cmd, 0, "id")
	if err != nil {
		return err
	}
	if err := requireForce(cmd, fmt.Sprintf("delete removes task list %d and its tasks", id)); err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.DeleteTaskList(ctx, id); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("task list %d deleted", id)))
}

func taskAdd(ctx context.Context, cmd *cli.Command) error {
	listID, err := requireIDArg(cmd, 0, "tasklist-id")
	if err != nil {
		return err
	}
	content, err := requireArg(cmd, 1, "content")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if _, err := e.svc.CreateTask(ctx, listID, content); err != nil {
		return exitErr(err)
	}
	tasks, err := e.svc.ListTasks(ctx, listID)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewTaskListRecord(tasks))
}

func taskList(ctx context.Context, cmd *cli.Command) error {
	listID, err := requireIDArg(cmd, 0, "tasklist-id")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	tasks, err := e.svc.ListTasks(ctx, listID)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewTaskListRecord(tasks))
}

func taskDone(ctx context.Context, cmd *cli.Command) error {
	id, err := requireIDArg(cmd, 0, "task-id")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.SetTaskStatus(ctx, id, index.TaskDone); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("task %d done", id)))
}

func taskDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireIDArg(cmd, 0, "task-id")
	if err != nil {
		return err
	}
	if err := requireForce(cmd, fmt.Sprintf("delete removes task %d", id)); err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.DeleteTask(ctx, id); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("task %d deleted", id)))
}

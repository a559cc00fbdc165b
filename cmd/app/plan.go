package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/output"
)

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Track work plans with task lists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a plan",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Plan description"},
				},
				Action: planCreate,
			},
			{
				Name:   "list",
				Usage:  "List plans",
				Action: planList,
			},
			{
				Name:      "show",
				Usage:     "Show a plan with its task lists and tasks",
				ArgsUsage: "<name|id>",
				Action:    planShow,
			},
			{
				Name:      "update",
				Usage:     "Change a plan's name, description, or status",
				ArgsUsage: "<name|id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New plan name"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
					&cli.StringFlag{Name: "status", Usage: "New status: active, completed, or archived"},
				},
				Action: planUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a plan with everything under it",
				ArgsUsage: "<name|id>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    planDelete,
			},
		},
	}
}

func planCreate(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, 0, "name")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	plan, err := e.svc.CreatePlan(ctx, name, cmd.String("description"))
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPlanRecord(index.PlanDetail{PlanRow: *plan}))
}

func planList(ctx context.Context, _ *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	plans, err := e.svc.ListPlans(ctx)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPlanListRecord(plans))
}

func planShow(ctx context.Context, cmd *cli.Command) error {
	ref, err := requireArg(cmd, 0, "name|id")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	detail, err := e.svc.GetPlanDetail(ctx, ref)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPlanRecord(*detail))
}

func planUpdate(ctx context.Context, cmd *cli.Command) error {
	ref, err := requireArg(cmd, 0, "name|id")
	if err != nil {
		return err
	}
	if !cmd.IsSet("name") && !cmd.IsSet("description") && !cmd.IsSet("status") {
		return cli.Exit("nothing to update: pass at least one of --name, --description, --status", exitValidation)
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	plan, err := e.svc.GetPlan(ctx, ref)
	if err != nil {
		return exitErr(err)
	}
	if cmd.IsSet("name") {
		plan.Name = cmd.String("name")
	}
	if cmd.IsSet("description") {
		plan.Description = cmd.String("description")
	}
	if cmd.IsSet("status") {
		plan.Status = cmd.String("status")
	}
	if err := e.svc.UpdatePlan(ctx, *plan); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("plan %s updated", plan.Name)))
}

func planDelete(ctx context.Context, cmd *cli.Command) error {
	ref, err := requireArg(cmd, 0, "name|id")
	if err != nil {
		return err
	}
	if err := requireForce(cmd, fmt.Sprintf("delete removes plan %q and all of its task lists", ref)); err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.DeletePlan(ctx, ref); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("plan %s deleted", ref)))
}

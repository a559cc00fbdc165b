package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/output"
)

func promptCommand() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Search and inspect indexed prompts",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Full-text search over prompts",
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{maxResultsFlag()},
				Action:    promptSearch,
			},
			{
				Name:   "list",
				Usage:  "List indexed prompts",
				Action: promptList,
			},
			{
				Name:      "show",
				Usage:     "Show one prompt with its fragment and reference sections",
				ArgsUsage: "<name>",
				Action:    promptShow,
			},
			{
				Name:      "delete",
				Usage:     "Remove one prompt from the index; the file on disk stays",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    promptDelete,
			},
		},
	}
}

func promptSearch(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, 0, "query")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	hits, err := e.svc.SearchPrompts(ctx, query, int(cmd.Int("max-results")))
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPromptSearchRecord(query, hits))
}

func promptList(ctx context.Context, _ *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	prompts, err := e.svc.ListPrompts(ctx)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPromptListRecord(prompts))
}

func promptShow(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, 0, "name")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	detail, err := e.svc.GetPrompt(ctx, name)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewPromptRecord(*detail))
}

func promptDelete(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, 0, "name")
	if err != nil {
		return err
	}
	if err := requireForce(cmd, fmt.Sprintf("delete removes prompt %q from the index", name)); err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.DeletePrompt(ctx, name); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("prompt %s removed from the index", name)))
}

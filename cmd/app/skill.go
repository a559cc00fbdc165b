package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/output"
)

func skillCommand() *cli.Command {
	return &cli.Command{
		Name:  "skill",
		Usage: "Search and inspect indexed skills",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Full-text search over skills",
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{categoryFlag(), maxResultsFlag()},
				Action:    skillSearch,
			},
			{
				Name:   "list",
				Usage:  "List indexed skills",
				Flags:  []cli.Flag{categoryFlag()},
				Action: skillList,
			},
			{
				Name:      "show",
				Usage:     "Show one skill by path or name",
				ArgsUsage: "<path|name>",
				Action:    skillShow,
			},
			{
				Name:   "categories",
				Usage:  "List categories with skill counts",
				Action: skillCategories,
			},
			{
				Name:      "delete",
				Usage:     "Remove one skill from the index; the file on disk stays",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    skillDelete,
			},
		},
	}
}

func skillSearch(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, 0, "query")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	hits, err := e.svc.SearchSkills(ctx, query, cmd.String("category"), int(cmd.Int("max-results")))
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewSkillSearchRecord(query, hits))
}

func skillList(ctx context.Context, cmd *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	skills, err := e.svc.ListSkills(ctx, cmd.String("category"))
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewSkillListRecord(skills))
}

func skillShow(ctx context.Context, cmd *cli.Command) error {
	key, err := requireArg(cmd, 0, "path|name")
	if err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	skill, err := e.svc.GetSkill(ctx, key)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewSkillRecord(*skill))
}

func skillCategories(ctx context.Context, _ *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	cats, err := e.svc.Categories(ctx)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewCategoryListRecord(cats))
}

func skillDelete(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, 0, "path")
	if err != nil {
		return err
	}
	if err := requireForce(cmd, fmt.Sprintf("delete removes skill %q from the index", path)); err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.DeleteSkill(ctx, path); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("skill %s removed from the index", path)))
}

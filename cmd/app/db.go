package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/output"
)

func dbCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Manage the library index database",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the database and apply the schema",
				Action: dbInit,
			},
			{
				Name:  "sync",
				Usage: "Index new and changed library files",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch", Usage: "Keep running and re-index on file changes"},
				},
				Action: dbSync,
			},
			{
				Name:   "reset",
				Usage:  "Delete every indexed row",
				Flags:  []cli.Flag{forceFlag()},
				Action: dbReset,
			},
			{
				Name:   "stats",
				Usage:  "Show index aggregates",
				Action: dbStats,
			},
		},
	}
}

func dbInit(_ context.Context, _ *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	return e.render(output.NewStatusRecord("ok", fmt.Sprintf("database ready at %s", e.cfg.SQLite.Path)))
}

func dbSync(ctx context.Context, cmd *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	rep, err := e.svc.Sync(ctx)
	if err != nil {
		return exitErr(err)
	}
	if err := e.render(output.NewSyncReportRecord(*rep)); err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	watchCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	e.logger.Info("watching library for changes", slog.String("root", e.cfg.Library.Root))
	return exitErr(e.svc.Watch(watchCtx))
}

func dbReset(ctx context.Context, cmd *cli.Command) error {
	if err := requireForce(cmd, "reset permanently deletes every indexed row"); err != nil {
		return err
	}
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := e.svc.Reset(ctx); err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatusRecord("ok", "index cleared"))
}

func dbStats(ctx context.Context, _ *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	stats, err := e.svc.Stats(ctx)
	if err != nil {
		return exitErr(err)
	}
	return e.render(output.NewStatsRecord(*stats))
}

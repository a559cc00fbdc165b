package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal/mcpserver"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Serve the library to MCP clients over stdio",
		Action: mcpAction,
	}
}

// mcpAction keeps stdout reserved for the MCP transport; all logging goes to
// stderr through the env logger.
func mcpAction(ctx context.Context, _ *cli.Command) error {
	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	if _, err := e.svc.Sync(ctx); err != nil {
		e.logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	e.logger.Info("MCP server listening on stdio")
	return mcpserver.New(e.svc).ServeStdio()
}

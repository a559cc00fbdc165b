// Command ansuz indexes a Markdown library of agent skills and prompts into
// SQLite and exposes it over the CLI, a read-only HTTP API, and MCP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Markdown skill and prompt library with SQLite full-text search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file; replaces the global and project config lookup",
				Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Force JSON output",
				Destination: &jsonOut,
			},
			&cli.BoolFlag{
				Name:        "human",
				Usage:       "Force human-readable output",
				Destination: &humanOut,
			},
		},
		Commands: []*cli.Command{
			dbCommand(),
			skillCommand(),
			promptCommand(),
			planCommand(),
			taskListCommand(),
			taskCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitRuntime)
	}
}

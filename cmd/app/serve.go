package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library over a read-only HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address as host:port; overrides the configured one"},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --addr %q: %v", addr, err), exitValidation)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --addr port %q", port), exitValidation)
		}
		cfg.App.HTTP.Host = host
		cfg.App.HTTP.Port = p
		if err := cfg.App.HTTP.Validate(); err != nil {
			return cli.Exit(fmt.Sprintf("invalid --addr %q: %v", addr, err), exitValidation)
		}
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithLogger(newLogger(cfg))); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

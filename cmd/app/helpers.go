package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/library"
	"github.com/starford/ansuz/internal/output"
	"github.com/starford/ansuz/internal/storage"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

// Process exit codes: success is zero, runtime failures one, rejected input
// and guard violations two.
const (
	exitRuntime    = 1
	exitValidation = 2
)

// Root flag destinations, bound in main.
var (
	configPath string
	jsonOut    bool
	humanOut   bool
)

// loadConfig builds the effective configuration: defaults, then the global
// and project config files, then environment overrides, validated once at
// the end. An explicit --config path replaces the layered lookup and must
// exist.
func loadConfig() (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := pkgconfig.LoadLayers(cfg, pkgconfig.GlobalPath("ansuz"), "ansuz.yaml"); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger on stderr so stdout stays clean for
// command output and the MCP transport.
func newLogger(cfg *internal.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
}

// env bundles what an index-backed command needs.
type env struct {
	cfg    *internal.Config
	db     *index.DB
	svc    *library.Service
	out    *output.Registry
	mode   output.Mode
	logger *slog.Logger
}

// setup loads configuration and opens the library index. The returned
// cleanup closes the database and is safe to defer.
func setup() (*env, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	if err := os.MkdirAll(cfg.Library.Root, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create library root: %w", err)
	}
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := storage.NewFS(cfg.Library.Root)
	if err != nil {
		return nil, nil, err
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, err
	}

	e := &env{
		cfg:    cfg,
		db:     db,
		svc:    library.NewService(store, db, syncOptionsFrom(cfg), logger),
		out:    output.DefaultRegistry(),
		mode:   output.ResolveMode(jsonOut, humanOut, cfg.App.Output),
		logger: logger,
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close index", slog.String("error", err.Error()))
		}
	}
	return e, cleanup, nil
}

func syncOptionsFrom(cfg *internal.Config) index.SyncOptions {
	return index.SyncOptions{
		SkillsDir:  cfg.Library.SkillsDir,
		PromptsDir: cfg.Library.PromptsDir,
		ConfigsDir: cfg.Library.ConfigsDir,
	}
}

// render writes one record to stdout in the resolved output mode.
func (e *env) render(rec output.Record) error {
	return e.out.Render(os.Stdout, e.mode, rec)
}

// exitErr maps service errors onto exit codes: rejected input and missing
// or duplicate records exit 2, anything else exits 1 through main.
func exitErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrInvalid) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrAlreadyExists) {
		return cli.Exit(err.Error(), exitValidation)
	}
	return err
}

// requireForce guards destructive commands: without --force they exit 2
// before any database access.
func requireForce(cmd *cli.Command, warning string) error {
	if cmd.Bool("force") {
		return nil
	}
	return cli.Exit(warning+"; re-run with --force to proceed", exitValidation)
}

// requireArg returns the positional argument at position i, or exits 2
// naming the missing argument.
func requireArg(cmd *cli.Command, i int, name string) (string, error) {
	v := cmd.Args().Get(i)
	if strings.TrimSpace(v) == "" {
		return "", cli.Exit(fmt.Sprintf("missing required argument <%s>", name), exitValidation)
	}
	return v, nil
}

// requireIDArg parses the positional argument at position i as a numeric id.
func requireIDArg(cmd *cli.Command, i int, name string) (int64, error) {
	raw, err := requireArg(cmd, i, name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, cli.Exit(fmt.Sprintf("argument <%s> must be a numeric id, got %q", name, raw), exitValidation)
	}
	return id, nil
}

func forceFlag() cli.Flag {
	return &cli.BoolFlag{Name: "force", Usage: "Confirm the destructive operation"}
}

func categoryFlag() cli.Flag {
	return &cli.StringFlag{Name: "category", Usage: "Restrict to one category"}
}

func maxResultsFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "max-results",
		Aliases: []string{"n"},
		Usage:   "Maximum number of results to return",
		Value:   index.DefaultSearchLimit,
	}
}

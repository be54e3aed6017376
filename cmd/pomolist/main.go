package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tgienger/pomolist/internal/advisor"
	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/commands"
	"github.com/tgienger/pomolist/internal/config"
	"github.com/tgienger/pomolist/internal/db"
	"github.com/tgienger/pomolist/internal/settings"
	"github.com/tgienger/pomolist/internal/tasks"
	"github.com/tgienger/pomolist/pkg/logutils"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
		}
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, c, date)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		pomoApp   = &app.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "pomolist",
		Usage:     "Todo list with a Pomodoro focus timer",
		UsageText: "pomolist [global options] command [command options]",
		Description: `pomolist keeps an inbox and a today list, times focus sessions against a task,
and can ask Gemini to rank today's open tasks.

Run 'pomolist' with no arguments to open the interactive list.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("POMOLIST_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/pomolist.log)",
				Sources:     cli.EnvVars("POMOLIST_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("POMOLIST_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("POMOLIST_DATA_DIR"),
				Value:       config.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the alt screen stays clean
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "pomolist.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			database, err = db.New(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			adv, err := newAdvisor(ctx, cfg.Advisor)
			if err != nil {
				return ctx, fmt.Errorf("create sort advisor: %w", err)
			}

			settingsStore := settings.New(database, cfg.Limits.Settings())
			settingsStore.Load(ctx)

			// Populate the pre-allocated App (commands already hold a pointer to it)
			*pomoApp = *app.NewApp(
				tasks.Load(ctx, database),
				settingsStore,
				database,
				adv,
				nil,
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, pomoApp)

	root = commands.NewAddCmd(pomoApp).Register(root)
	root = commands.NewListCmd(pomoApp).Register(root)
	root = commands.NewSettingsCmd(pomoApp).Register(root)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'pomolist --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAdvisor returns the Gemini advisor when an API key is configured
func newAdvisor(ctx context.Context, cfg config.AdvisorConfig) (advisor.Advisor, error) {
	if !cfg.Enabled() {
		log.Info().Msg("no gemini api key, ai sort disabled")
		return advisor.Disabled{}, nil
	}

	var opts []advisor.GeminiOption
	if cfg.Endpoint != "" {
		opts = append(opts, advisor.WithEndpoint(cfg.Endpoint))
	}
	return advisor.NewGemini(ctx, cfg.APIKey, cfg.Model, opts...)
}

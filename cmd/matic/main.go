package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/maticai/matic/internal/ai"
	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/cli/assistant"
	"github.com/maticai/matic/internal/cli/backups"
	"github.com/maticai/matic/internal/cli/expenses"
	"github.com/maticai/matic/internal/cli/habits"
	"github.com/maticai/matic/internal/cli/meals"
	"github.com/maticai/matic/internal/cli/system"
	"github.com/maticai/matic/internal/cli/tasks"
	"github.com/maticai/matic/internal/config"
	"github.com/maticai/matic/internal/constants"
	maticerrors "github.com/maticai/matic/internal/errors"
	"github.com/maticai/matic/internal/keyring"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/notifier"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/storage/sqlstore"
	"github.com/maticai/matic/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"YAML config file." type:"path" default:"~/.config/matic/config.yaml"`
	DB      string `name:"db" help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string; use the OS keyring, MATIC_DB_CONNECTION or .pgpass instead."`
	Debug   bool   `help:"Log debug output to stderr."`
	Tray    bool   `help:"Also send notifications to the matic-tray desktop app."`

	Init     system.InitCmd     `cmd:"" help:"Initialize matic storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the local HTTP API."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the weekly habit tracker." default:"1"`
	Calendar system.CalendarCmd `cmd:"" help:"Export due habits as an iCalendar feed."`
	Settings system.SettingsCmd `cmd:"" help:"Show or change application settings."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run diagnostics on the database and environment."`

	Habit   habits.HabitCmd     `cmd:"" help:"Manage habits and habit tracking."`
	Task    tasks.TaskCmd       `cmd:"" help:"Manage tasks."`
	Food    meals.FoodCmd       `cmd:"" help:"Estimate and manage foods."`
	Meal    meals.MealCmd       `cmd:"" help:"Log and review meals."`
	Expense expenses.ExpenseCmd `cmd:"" help:"Track expenses and receipts."`
	Chat    assistant.ChatCmd   `cmd:"" help:"Talk to the nutrition assistant."`
	Backup  backups.BackupCmd   `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		maticerrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit, meal and expense tracker with AI-assisted food logging"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir, err := config.ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		maticerrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		maticerrors.Fatal(err)
	}

	target, err := resolveDatabase(CLI.DB, cfg)
	if err != nil {
		maticerrors.Fatal(err)
	}
	store, err := newStore(target)
	if err != nil {
		maticerrors.Fatal(err)
	}

	if needsLoadedStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			maticerrors.Fatal(err)
		}
	}
	defer store.Close()

	sinks := notifier.Multi{notifier.NewLogSink(logger.Named("notify")), notifier.NewWriterSink(os.Stderr)}
	if CLI.Tray {
		sinks = append(sinks, notifier.NewTraySink())
	}

	appCtx := &cli.Context{
		Store:    store,
		Tracker:  tracker.New(store, tracker.WithLogger(logger.Named("tracker"))),
		Config:   cfg,
		Engine:   newEngine(cfg),
		AI:       newAIClient(cfg),
		Notifier: sinks,
		Logger:   logger.Named("cli"),
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command execution failed", "command", ctx.Command(), "error", err)
		if cli.IsReported(err) {
			os.Exit(1)
		}
		maticerrors.Fatal(err)
	}
}

// resolveDatabase picks the store target: the --db flag, then the config
// file or MATIC_DB_CONNECTION, then the keyring, then the default SQLite
// path. Only a command-line PostgreSQL URL is rejected for embedded
// credentials; the other sources are not shell history.
func resolveDatabase(flag string, cfg config.Config) (string, error) {
	if flag != "" {
		if sqlstore.IsPostgresURL(flag) || strings.Contains(flag, "host=") {
			if err := sqlstore.ValidateConnString(flag); err != nil {
				if errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
					return "", fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line; " +
						"use 'matic keyring set database-connection ...', " + config.EnvDBConnection + " or a .pgpass file")
				}
				return "", err
			}
		}
		return flag, nil
	}
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	if conn := keyring.Lookup(keyring.SecretDBConnection); conn != "" {
		return conn, nil
	}
	return constants.DefaultDBPath, nil
}

func newStore(target string) (*sqlstore.Store, error) {
	if sqlstore.IsPostgresURL(target) || strings.Contains(target, "host=") {
		return sqlstore.NewPostgres(target), nil
	}
	path, err := config.ExpandHome(target)
	if err != nil {
		return nil, err
	}
	return sqlstore.NewSQLite(path), nil
}

// needsLoadedStore reports whether the selected command works on an
// initialized database.
func needsLoadedStore(command string) bool {
	for _, prefix := range []string{"init", "migrate", "keyring", "doctor"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

func newEngine(cfg config.Config) *nutrition.Engine {
	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = logger.Named("nutrition")

	var db nutrition.Database
	if cfg.Nutrition.APIKey != "" {
		db = nutrition.NewFDCClient(cfg.Nutrition.BaseURL, cfg.Nutrition.APIKey)
	} else {
		logger.Debug("No nutrition database key configured; using built-in values only")
	}
	return nutrition.New(db, engineCfg)
}

func newAIClient(cfg config.Config) *ai.Client {
	if cfg.AI.BaseURL == "" {
		return nil
	}
	return ai.NewClient(cfg.AI.BaseURL, ai.Options{
		APIKey:     cfg.AI.APIKey,
		RetryDelay: cfg.AI.RetryDelay,
		Logger:     logger.Named("ai"),
	})
}

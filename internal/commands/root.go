package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fleetbooks/fleetbooks/internal/buildinfo"
	"github.com/fleetbooks/fleetbooks/internal/config"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool

	level  zap.AtomicLevel
	logger *zap.Logger
	cfg    *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "fleetbooks",
		Short:   "Back office for a freight fleet: books, payroll, stock and loads",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(a),
		newMigrateCommand(a),
		newServeCommand(a),
		newAccountsCommand(a),
		newJournalCommand(a),
		newReportCommand(a),
		newSnapshotCommand(a),
	)

	return rootCmd
}

func (a *app) setupLogger() error {
	zcfg := zap.NewProductionConfig()
	a.level = zcfg.Level
	if a.verbose {
		a.level.SetLevel(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.logger = logger
	return nil
}

// dir is the project directory: the one holding the configuration file.
func (a *app) dir() string { return filepath.Dir(a.configPath) }

// loadConfig reads the configuration file, applies .env and environment
// overrides and validates the result.
func (a *app) loadConfig() error {
	if err := config.LoadEnv(filepath.Join(a.dir(), ".env")); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid %s: %w", a.configPath, err)
	}
	// A relative sqlite file lives next to the configuration.
	db := &cfg.Database
	if (db.Driver == "sqlite" || db.Driver == "") && db.DSN == "" && db.Name != "" && !filepath.IsAbs(db.Name) {
		db.Name = filepath.Join(a.dir(), db.Name)
	}
	if !a.verbose {
		if err := a.level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
	}
	a.cfg = cfg
	return nil
}

// open loads the configuration and connects to the database. The
// returned function closes the connection.
func (a *app) open() (*store.Tables, func(), error) {
	if err := a.loadConfig(); err != nil {
		return nil, nil, err
	}
	db, err := store.Open(a.cfg.Database, a.logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := store.Close(db); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
	}
	return store.NewTables(db), closeDB, nil
}

// migrate brings the schema up to date before a command touches it.
func (a *app) migrate(tables *store.Tables) error {
	if err := store.Migrate(tables.DB()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

func (a *app) withTables(ctx context.Context, fn func(ctx context.Context, tables *store.Tables) error) error {
	tables, closeDB, err := a.open()
	if err != nil {
		return err
	}
	defer closeDB()
	if err := a.migrate(tables); err != nil {
		return err
	}
	return fn(ctx, tables)
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tennis-analyzer/internal/config"
	"tennis-analyzer/internal/database"
	"tennis-analyzer/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var timeout time.Duration

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB loads the config and connects to the configured relational store.
// The caller must close the returned DB.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	driver, err := cfg.Storage.ResolveDriver(cfg.DB)
	if err != nil {
		return nil, err
	}
	if driver == config.DriverMemory {
		return nil, fmt.Errorf("no database configured: set storage.dsn or DATABASE_URL")
	}

	db, err := database.Open(ctx, driver, cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}

// withDB runs fn against a fresh connection bounded by --timeout.
func withDB(fn func(ctx context.Context, db *sqlx.DB) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		defer logger.Sync()

		return fn(ctx, db)
	}
}

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the tennis-analyzer database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withDB(func(ctx context.Context, db *sqlx.DB) error {
		if err := database.MigrateUp(ctx, db); err != nil {
			return fmt.Errorf("migrating up: %w", err)
		}
		return printVersion(ctx, db)
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert every applied migration",
	RunE: withDB(func(ctx context.Context, db *sqlx.DB) error {
		if err := database.MigrateDown(ctx, db); err != nil {
			return fmt.Errorf("migrating down: %w", err)
		}
		return printVersion(ctx, db)
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE:  withDB(printVersion),
}

func printVersion(ctx context.Context, db *sqlx.DB) error {
	version, dirty, err := database.Version(ctx, db)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		fmt.Printf("Schema version: %d (dirty)\n", version)
		return nil
	}
	fmt.Printf("Schema version: %d\n", version)
	return nil
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

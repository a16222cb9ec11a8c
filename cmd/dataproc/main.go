// Package main implements the dataproc command line tool. It wires
// configuration, logging, the SQLite-backed operation log, the event
// emitter and the task dispatcher together, and drives every subsystem
// end to end through a demo pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acrelle/dataproc/internal/config"
	"github.com/acrelle/dataproc/internal/platform/logger"
	"github.com/acrelle/dataproc/internal/platform/sqlite"
)

var (
	version = "1.0.0"

	configFlag  string
	workersFlag int
	dbFlag      string

	rootCmd = &cobra.Command{
		Use:   "dataproc",
		Short: "dataproc - asynchronous data-processing toolkit",
		Long: "dataproc runs a demonstration pipeline over the toolkit: JSON processing, " +
			"directory scanning, gzip compression, pattern matching, encryption, hashing, " +
			"the SQLite operation log and asynchronous hash tasks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dataproc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dataproc version %s\n", version)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "",
		"Path to a config file (default: config.yaml in the working directory)")
	rootCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0,
		"Override the configured dispatcher worker count")
	rootCmd.Flags().StringVar(&dbFlag, "db", "",
		"Override the configured SQLite database path")

	rootCmd.AddCommand(versionCmd)
}

// run loads configuration, initializes the application and executes the
// demo pipeline.
func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"log_level", cfg.Log.Level,
		"worker_count", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize,
		"database_path", cfg.Database.Path)

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlite.MigrateUp(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return runDemo(ctx, app)
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFlag != "" {
		cfg, err = config.LoadFromFile(configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if workersFlag > 0 {
		cfg.Task.WorkerCount = workersFlag
	}
	if dbFlag != "" {
		cfg.Database.Path = dbFlag
	}

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/platform/logger"
	"github.com/phrazzld/bunny/internal/platform/migrations"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bunnyd",
		Short:         "OCR and translation task daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a config file (default ./bunny.yaml when present)")

	root.AddCommand(newServeCmd(&configPath), newMigrateCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the task runner and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run(ctx)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Apply the markers schema to the configured database",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "reset", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, command, log)
		},
	}
}

func loadConfigAndLogger(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, log, nil
}

func runMigrations(ctx context.Context, cfg *config.Config, command string, log *slog.Logger) error {
	if cfg.Subjects.Driver == driverMemory {
		return fmt.Errorf("subjects.driver is %q, nothing to migrate", driverMemory)
	}

	db, err := openDatabase(ctx, cfg.Subjects)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	return migrations.Run(ctx, db, cfg.Subjects.Driver, command, log)
}

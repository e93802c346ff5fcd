// Package migrate implements the migrate command over the migration
// manager: versioned SQL scripts in production, AutoMigrate in development.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lingorelay/lingorelay/internal/infrastructure/config"
	"github.com/lingorelay/lingorelay/internal/infrastructure/database"
	"github.com/lingorelay/lingorelay/internal/infrastructure/migration"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newAutoCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending versioned migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStrategy(migration.NewGolangMigrateStrategy(migration.DefaultScriptsPath))
		},
	}
}

func newAutoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Sync the schema with GORM AutoMigrate (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStrategy(migration.NewGormAutoMigrateStrategy())
		},
	}
}

func runWithStrategy(strategy migration.Strategy) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	manager := migration.NewManagerWithStrategy(strategy)
	return manager.Migrate(database.Get(), migration.AutoMigrateModels()...)
}

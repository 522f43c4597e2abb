package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vocabtrainer/internal/config"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the SQL migrations to the configured PostgreSQL database.

Only the DB_* variables are required.

Examples:
  # Migrate to the latest version
  vocabtrainer migrate

  # Roll back the last migration
  vocabtrainer migrate --steps -1`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of versions to move (0 = all the way up, negative = down)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := runMigrations(db, migrationsURL, migrateSteps, logger); err != nil {
		return err
	}

	logger.Info("Database migrations completed", zap.Int("steps", migrateSteps))
	return nil
}

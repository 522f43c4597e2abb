package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	migrationsURL string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "vocabtrainer",
	Short: "Spaced-repetition English vocabulary trainer",
	Long: `Vocabtrainer is a Telegram bot for learning English vocabulary with
spaced repetition, quizzes and progress tracking.

Configuration is read from the environment or a .env file.

Examples:
  # Apply database migrations
  vocabtrainer migrate

  # Run the bot
  vocabtrainer bot`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsURL, "migrations", "file://migrations", "migration source URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

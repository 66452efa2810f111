package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kaitokidbua/worktime-codex/internal/config"
	"github.com/Kaitokidbua/worktime-codex/internal/logging"
	"github.com/Kaitokidbua/worktime-codex/internal/storage"
	"github.com/Kaitokidbua/worktime-codex/internal/tracker"
)

var (
	cfg            *config.Config
	db             *storage.Database
	logger         *logrus.Logger
	trackerService *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:           "worktime",
	Short:         "Attendance records with regular and overtime hours",
	Long:          `Worktime records employee clock-in/clock-out entries, splits worked time into regular and overtime hours, and summarizes it per day, ISO week or month.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err = storage.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		trackerService = tracker.New(db, cfg.Policy(), logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(archiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logging.LogError(logger, "cli", "execute", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

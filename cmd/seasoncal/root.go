package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/calendar"
	"github.com/zapponejosh/seasoncal/internal/config"
	"github.com/zapponejosh/seasoncal/internal/database"
	"github.com/zapponejosh/seasoncal/internal/logger"
	"github.com/zapponejosh/seasoncal/internal/savefile"
)

var rootCmd = &cobra.Command{
	Use:           "seasoncal",
	Short:         "In-game season calendar",
	Long:          "seasoncal keeps the game clock (four 28-day seasons a year) and the events scheduled on it.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ./seasoncal.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

// clockStore is a game clock that can be read and moved.
type clockStore interface {
	calendar.Clock
	SetDate(ctx context.Context, d calendar.Date) error
	AdvanceDays(ctx context.Context, days int) (calendar.Date, error)
}

// app is what every subcommand needs: config, logger, the event database and
// the configured game clock.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *database.DB
	clock clockStore
}

// openApp loads configuration, opens and migrates the database and selects
// the game clock.
func openApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.Setup(cfg, os.Stderr)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: db, clock: db}
	if cfg.ClockSource == config.ClockSaveFile {
		a.clock = savefile.Open(cfg.SaveFilePath)
	}

	log.Debug("app ready",
		slog.String("clock_source", cfg.ClockSource),
		slog.String("database", cfg.DatabasePath),
	)
	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("close database", slog.Any("error", err))
	}
}

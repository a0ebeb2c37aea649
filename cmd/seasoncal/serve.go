package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/api"
	"github.com/zapponejosh/seasoncal/internal/config"
	"github.com/zapponejosh/seasoncal/internal/savefile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	log := a.log

	log.Info("starting seasoncal API",
		slog.String("env", a.cfg.Env),
		slog.Int("port", a.cfg.Port),
		slog.String("clock_source", a.cfg.ClockSource),
		slog.String("log_level", a.cfg.LogLevel),
	)

	if a.cfg.ClockSource == config.ClockSaveFile {
		w, err := savefile.NewWatcher(a.cfg.SaveFilePath)
		if err != nil {
			return fmt.Errorf("watch save file: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch save file: %w", err)
		}
		defer w.Stop()
		go logChanges(log, w.Changes)
	}

	handlers := api.NewHandlers(a.db, a.clock, a.cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		Handler:           api.SetupRoutes(handlers, a.cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("seasoncal API ready", slog.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func logChanges(log *slog.Logger, changes <-chan savefile.Change) {
	for c := range changes {
		if c.Err != nil {
			log.Warn("save file unreadable", slog.Any("error", c.Err))
			continue
		}
		log.Info("game date changed", slog.String("date", c.Date.String()))
	}
}

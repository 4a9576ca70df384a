package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lon-backend/internal/config"
	"lon-backend/internal/database"
	"lon-backend/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg := config.Load()

	if err := database.Init(cfg.DBDSN, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}
	defer database.Close()

	r, err := server.NewRouter(cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	if err := serveUntil(httpServer, quit); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// serveUntil runs srv until a signal arrives on quit, then shuts it down.
// A listener failure is returned at once.
func serveUntil(srv *http.Server, quit <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	return nil
}

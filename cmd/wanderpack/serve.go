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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/wanderpack/internal/config"
	"github.com/dukerupert/wanderpack/internal/database"
	"github.com/dukerupert/wanderpack/internal/email"
	"github.com/dukerupert/wanderpack/internal/logging"
	"github.com/dukerupert/wanderpack/internal/middleware"
	"github.com/dukerupert/wanderpack/internal/packing"
	"github.com/dukerupert/wanderpack/internal/server"
	"github.com/dukerupert/wanderpack/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rules, err := packing.LoadRules(cfg.Packing.RulesPath)
	if err != nil {
		return fmt.Errorf("load packing rules: %w", err)
	}

	emailClient := email.NewClient(cfg.Email.ServerToken, cfg.Email.FromAddress, cfg.Email.BaseURL)
	if !cfg.EmailEnabled() {
		logger.Info("email disabled, POSTMARK_SERVER_TOKEN not set")
	}

	srv := server.New(db, *cfg, packing.NewEngine(rules), emailClient, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("wanderpack running", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		runCleanupLoop(gctx, cfg.Server.CleanupInterval, srv.SessionStore(), srv.RateLimiter(), logger.With("component", "cleanup"))
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// runCleanupLoop purges expired sessions and stale rate-limit entries
// every interval until ctx is done.
func runCleanupLoop(ctx context.Context, interval time.Duration, sessions *store.SessionStore, limiter *middleware.RateLimiter, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired()
			if err != nil {
				logger.Error("delete expired sessions", "error", err)
			} else if n > 0 {
				logger.Info("deleted expired sessions", "count", n)
			}
			limiter.Cleanup()
			logger.Debug("rate limiter swept", "tracked", limiter.Len())
		}
	}
}

// Package main is the entry point for the anvil terrain server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/anvil/internal/assets"
	"github.com/Faultbox/anvil/internal/config"
	"github.com/Faultbox/anvil/internal/logger"
	"github.com/Faultbox/anvil/internal/proposal"
	"github.com/Faultbox/anvil/internal/server"
	"github.com/Faultbox/anvil/internal/terrain"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Anvil terrain server ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("server stopped normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode, err := terrain.ParseMode(cfg.Generation.Mode)
	if err != nil {
		return err
	}

	library := assets.NewLibrary()
	if _, err := library.LoadDir(cfg.Library.Dir); err != nil {
		if mode == terrain.ModeReference {
			return fmt.Errorf("loading mesh library: %w", err)
		}
		logger.Warn("mesh library unavailable", zap.String("dir", cfg.Library.Dir), zap.Error(err))
	}
	if cfg.Library.Watch {
		if err := library.Watch(ctx, cfg.Library.Dir); err != nil {
			return err
		}
	}

	source, err := proposal.New(cfg.Generation.IslandSource, cfg.Generation.IslandFile)
	if err != nil {
		return err
	}

	pipeline := terrain.NewPipeline(source, library, terrain.Options{
		Mode:           mode,
		VerifyChannels: cfg.Generation.VerifyChannels,
	})

	srv := server.New(pipeline, server.Options{
		GinMode:          cfg.Server.GinMode,
		Seed:             cfg.Generation.Seed,
		SimulatedLatency: cfg.Generation.SimulatedLatency,
		Library:          library,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("mode", string(mode)),
			zap.Int("library", library.Len()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

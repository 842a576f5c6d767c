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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/zodiac/internal/server"
	"github.com/hyperjump/zodiac/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, debug, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", flagConfig),
		zap.Bool("debug", debug),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("scrape_mode", cfg.Scrape.Mode),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	if components.Browser != nil {
		if err := components.Browser.Start(ctx); err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Templates.Watch && cfg.Templates.OverridesPath != "" {
		w, err := components.Registry.Watch(gctx, cfg.Templates.OverridesPath)
		if err != nil {
			return fmt.Errorf("failed to watch template overrides: %w", err)
		}
		defer w.Stop()
	}

	srv := server.NewServer(components.Service, &cfg.Server, logger)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"recipebot/internal/bootstrap"
	"recipebot/internal/config"
	"recipebot/internal/server"
	"recipebot/internal/telegram"
	"recipebot/internal/tracer"
	"recipebot/pkg/database"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (long polling or webhook, per BOT_MODE)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if verbose {
			cfg.Bot.Debug = true
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	if cfg.Bot.Token == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if cfg.Bot.Mode != config.ModePolling && cfg.Bot.Mode != config.ModeWebhook {
		return fmt.Errorf("unknown BOT_MODE %q", cfg.Bot.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg)
	defer log.Sync()

	shutdownTracer := tracer.InitTracer(tracer.Config{Enabled: cfg.Tracing.Enabled, Endpoint: cfg.Tracing.Endpoint}, log)
	defer shutdownTracer(context.Background())

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	container, err := bootstrap.NewContainer(db, cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Warn("Serve", "Recipe event consumer not started", map[string]interface{}{"error": err.Error()})
	}
	if container.AuditService != nil {
		if err := container.AuditService.Start(ctx); err != nil {
			log.Warn("Serve", "Audit subscriber not started", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := container.Client.SetCommands(container.Dispatcher.Menu()); err != nil {
		log.Warn("Serve", "Failed to publish command menu", map[string]interface{}{"error": err.Error()})
	}

	srv := server.New(cfg, container)
	errCh := make(chan error, 2)
	go func() { errCh <- srv.Run() }()

	if cfg.Bot.Mode == config.ModeWebhook {
		if err := container.Client.SetWebhook(cfg.Bot.WebhookURL, cfg.Bot.WebhookSecret); err != nil {
			return fmt.Errorf("register webhook: %w", err)
		}
		log.Info("Serve", "Webhook registered", map[string]interface{}{"url": cfg.Bot.WebhookURL})
	} else {
		go func() { errCh <- telegram.Poll(ctx, container.Client, container.Runner, log) }()
	}

	select {
	case <-ctx.Done():
		log.Info("Serve", "Shutting down", nil)
	case err = <-errCh:
		if err != nil {
			log.Error("Serve", "Stopped unexpectedly", map[string]interface{}{"error": err.Error()})
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("Serve", "HTTP shutdown failed", map[string]interface{}{"error": serr.Error()})
	}
	container.Runner.Wait()
	return err
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"receipt-bot/internal/api"
	"receipt-bot/internal/api/handlers"
	"receipt-bot/internal/mindee"
	"receipt-bot/internal/service"
	"receipt-bot/internal/telegram"
	"receipt-bot/pkg/config"
	"receipt-bot/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting receipt bot", zap.String("mode", cfg.Webhook.Mode))

	// Initialize clients and services
	tgClient := telegram.NewClient(&cfg.Telegram, appLogger)
	extractor := mindee.NewClient(&cfg.Mindee, appLogger)
	dispatcher := service.NewDispatcher(tgClient, extractor, appLogger)

	webhookHandler := handlers.NewWebhookHandler(dispatcher, appLogger)
	app := api.SetupRouter(webhookHandler, cfg.Webhook.Secret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Always start from a clean slate: drop any stale webhook along with
	// the update backlog accumulated while the bot was down.
	if err := tgClient.DeleteWebhook(ctx, true); err != nil {
		appLogger.Warn("Failed to delete webhook", zap.Error(err))
	}

	switch cfg.Webhook.Mode {
	case config.ModeWebhook:
		webhookURL := cfg.Webhook.BaseURL + "/" + cfg.Webhook.Secret + "/"
		if err := tgClient.SetWebhook(ctx, webhookURL); err != nil {
			appLogger.Fatal("Failed to register webhook", zap.Error(err))
		}
		appLogger.Info("Webhook registered")
	case config.ModePolling:
		poller := telegram.NewPoller(tgClient, dispatcher, cfg.Telegram.PollTimeout, appLogger)
		go poller.Run(ctx)
	default:
		appLogger.Fatal("Unknown bot mode", zap.String("mode", cfg.Webhook.Mode))
	}

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

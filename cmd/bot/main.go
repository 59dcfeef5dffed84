package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/xaenox/commute-alert-bot/internal/bot"
	"github.com/xaenox/commute-alert-bot/internal/classifier"
	"github.com/xaenox/commute-alert-bot/internal/queue"
	"github.com/xaenox/commute-alert-bot/internal/scheduler"
	"github.com/xaenox/commute-alert-bot/internal/storage"
	"github.com/xaenox/commute-alert-bot/internal/traffic"
	"github.com/xaenox/commute-alert-bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// A local .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		logger.Fatal("Failed to resolve timezone", zap.Error(err))
	}

	// All state lives in memory for the process lifetime
	store := storage.NewMemoryStorage()
	defer store.Close()

	trafficClient := traffic.NewClient(cfg.TomTom.BaseURL, cfg.TomTom.APIKey, cfg.TomTom.Timeout(), logger)
	clf := classifier.New(cfg.Alerts.UrgentThresholdMins, cfg.Alerts.MinorThresholdMins)
	deliveryQueue := queue.New(cfg.Delivery.QueueSize, logger)

	sched := scheduler.New(store, trafficClient, clf, deliveryQueue, scheduler.Config{
		PollInterval:     cfg.Scheduler.PollInterval(),
		ThrottleInterval: cfg.Scheduler.ThrottleInterval(),
		QueryTimeout:     cfg.TomTom.Timeout(),
		MaxConcurrent:    cfg.Scheduler.MaxConcurrentChecks,
		Location:         loc,
	}, logger)

	thresholds := bot.Thresholds{
		UrgentMins: cfg.Alerts.UrgentThresholdMins,
		MinorMins:  cfg.Alerts.MinorThresholdMins,
	}
	b, err := bot.New(cfg.Telegram.Token, store, thresholds, loc, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The two long-lived loops share only the queue and the store
	go deliveryQueue.Run(ctx, b)
	go sched.Run(ctx)

	if err := b.Start(ctx); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/crm-ops/internal/adapter/gateway"
	"github.com/rl1809/crm-ops/internal/adapter/journal"
	"github.com/rl1809/crm-ops/internal/adapter/storage"
	"github.com/rl1809/crm-ops/internal/config"
	"github.com/rl1809/crm-ops/internal/core/service"
	"github.com/rl1809/crm-ops/internal/port"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	ctx := context.Background()

	// Redis backs the advisory locks around log rotation. The locks are
	// cooperative, so a missing Redis degrades to in-process locking only.
	var locks port.LockRepository
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable, log locks disabled")
		rdb.Close()
		rdb = nil
	} else {
		locks = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis")
	}

	client := gateway.NewClient(cfg.GatewayURL, cfg.GatewayTimeout)

	jobs := service.NewJobs(service.JobsConfig{
		Gateway:           client,
		HeartbeatLog:      journal.NewStream("heartbeat", cfg.LogPath(config.HeartbeatLogFile), journal.LayoutHeartbeat, locks),
		LowStockLog:       journal.NewStream("low-stock", cfg.LogPath(config.LowStockLogFile), journal.LayoutDefault, locks),
		RemindersLog:      journal.NewStream("reminders", cfg.LogPath(config.RemindersLogFile), journal.LayoutDefault, locks),
		ReportLog:         journal.NewStream("report", cfg.LogPath(config.ReportLogFile), journal.LayoutDefault, locks),
		CleanupLog:        journal.NewStream("cleanup", cfg.LogPath(config.CleanupLogFile), journal.LayoutDefault, locks),
		LowStockThreshold: cfg.LowStockThreshold,
		RestockAmount:     cfg.RestockAmount,
		Retention:         cfg.Retention(),
		ReminderSpan:      cfg.ReminderWindow(),
		Logger:            logger,
	})

	scheduler, err := service.NewScheduler(jobs, service.Schedule{
		Heartbeat: cfg.HeartbeatCron,
		LowStock:  cfg.LowStockCron,
		Reminders: cfg.RemindersCron,
		Report:    cfg.ReportCron,
		Cleanup:   cfg.CleanupCron,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build scheduler")
	}

	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	scheduler.Stop()

	if rdb != nil {
		rdb.Close()
	}
	logger.Info("connections closed")
}

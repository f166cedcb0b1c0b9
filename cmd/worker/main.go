package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/orbitlog/orbitlog/internal/config"
	"github.com/orbitlog/orbitlog/internal/repository"
	"github.com/orbitlog/orbitlog/internal/services"
	"github.com/orbitlog/orbitlog/internal/workers"
	"github.com/orbitlog/orbitlog/pkg/cache"
	"github.com/orbitlog/orbitlog/pkg/logger"
	"github.com/orbitlog/orbitlog/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting orbitlog activity worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents, "activity-worker-group")

	activityRepo := repository.NewActivityRepository(db.DB)
	activityService := services.NewActivityService(activityRepo, redisClient, logger)
	worker := workers.NewActivityWorker(activityService, consumer, logger)

	go func() {
		if err := worker.Start(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Activity worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop activity worker")
	}

	logger.Info("Worker exited")
}

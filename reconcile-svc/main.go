package main

import (
	"context"
	"os/signal"
	"syscall"

	"zomatify/config"
	"zomatify/reconcile-svc/internal/service"
	"zomatify/reconcile-svc/internal/storage"
)

func main() {
	config.Load()

	logger := config.NewLogger(config.GetString("APP_ENV", "development"), "reconcile-svc")
	defer logger.Sync()

	db := config.MustInitPostgres(logger)
	defer db.Close()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	reader := config.NewKafkaReader("payments", "reconcile-svc")
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := service.NewConsumer(reader, storage.NewStore(db, rdb), logger)
	if err := consumer.Start(ctx); err != nil {
		logger.Errorw("consumer stopped", "error", err)
		return
	}
	logger.Info("consumer stopped")
}

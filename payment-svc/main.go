package main

import (
	"context"
	"net/http"
	"time"

	"zomatify/config"
	httpapi "zomatify/payment-svc/internal/api/http"
	"zomatify/payment-svc/internal/gateway"
	"zomatify/payment-svc/internal/service"
	"zomatify/payment-svc/internal/storage"
)

func main() {
	config.Load()

	env := config.GetString("APP_ENV", service.DefaultEnvironment)
	logger := config.NewLogger(env, "payment-svc")
	defer logger.Sync()

	creds := service.Credentials{
		KeyID:     config.GetString("RAZORPAY_KEY_ID", ""),
		KeySecret: config.GetString("RAZORPAY_KEY_SECRET", ""),
	}
	gw := gateway.NewClient(
		config.GetString("RAZORPAY_BASE_URL", gateway.DefaultBaseURL),
		creds.KeyID,
		creds.KeySecret,
		&http.Client{Timeout: 15 * time.Second},
	)

	var ledger service.PaymentLedger
	if config.GetString("DB_HOST", "") != "" {
		db := config.MustInitPostgres(logger)
		defer db.Close()

		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Fatalw("failed to ensure schema", "error", err)
		}
		ledger = repo
	} else {
		logger.Warn("DB_HOST not set, payment ledger disabled")
	}

	var publisher service.PaymentPublisher
	if writer := config.NewKafkaWriter("payments"); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		logger.Warn("KAFKA_BROKER not set, payment events disabled")
	}

	svc := service.NewPaymentService(creds, env, gw, ledger, publisher, logger)
	handler := httpapi.NewRouter(httpapi.NewHandler(svc, logger))

	if err := config.Serve(config.GetString("PAYMENT_ADDR", ":8084"), handler, logger); err != nil {
		logger.Fatalw("payment service stopped", "error", err)
	}
}

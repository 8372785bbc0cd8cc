package main

import (
	"net/http"
	"time"

	"zomatify/api-gateway/internal/gateway"
	"zomatify/config"
)

func main() {
	config.Load()

	logger := config.NewLogger(config.GetString("APP_ENV", "development"), "api-gateway")
	defer logger.Sync()

	cfg := gateway.Config{
		StorefrontSvcURL: config.GetString("STOREFRONT_SVC_URL", "http://localhost:8083"),
		PaymentSvcURL:    config.GetString("PAYMENT_SVC_URL", "http://localhost:8084"),
		StaticDir:        config.GetString("STATIC_DIR", "./frontend"),
	}

	gw := gateway.NewGateway(cfg, &http.Client{Timeout: 30 * time.Second}, logger)

	if err := config.Serve(config.GetString("GATEWAY_ADDR", ":8080"), gw.Handler(), logger); err != nil {
		logger.Fatalw("gateway stopped", "error", err)
	}
}

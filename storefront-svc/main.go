package main

import (
	"context"
	"net/http"
	"time"

	"zomatify/config"
	httpapi "zomatify/storefront-svc/internal/api/http"
	"zomatify/storefront-svc/internal/auth"
	"zomatify/storefront-svc/internal/cart"
	"zomatify/storefront-svc/internal/service"
	"zomatify/storefront-svc/internal/session"
	"zomatify/storefront-svc/internal/storage"
	"zomatify/storefront-svc/internal/supabase"
)

func main() {
	config.Load()

	logger := config.NewLogger(config.GetString("APP_ENV", "development"), "storefront-svc")
	defer logger.Sync()

	db := config.MustInitPostgres(logger)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Fatalw("failed to ensure schema", "error", err)
	}

	redisClient := config.MustInitRedis(logger)
	defer redisClient.Close()
	carts := storage.NewRedisCartStorage(redisClient, config.GetDuration("CART_TTL", 7*24*time.Hour))

	var publisher service.OrderPublisher
	if writer := config.NewKafkaWriter("orders"); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		logger.Warn("KAFKA_BROKER not set, order events disabled")
	}

	supabaseURL := config.GetString("SUPABASE_URL", "")
	anonKey := config.GetString("SUPABASE_ANON_KEY", "")
	if supabaseURL == "" || anonKey == "" {
		logger.Fatal("SUPABASE_URL and SUPABASE_ANON_KEY are required")
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}

	registry := session.NewRegistry(session.Config{
		CartStorage: func(id string) cart.Storage { return carts.ForSession(id) },
		AuthClient: func(id string) auth.AuthClient {
			return supabase.NewClient(supabaseURL, anonKey, httpClient, logger.With("session_id", id))
		},
		Profiles: repo,
		AuthOptions: auth.Options{
			DebounceWindow: config.GetDuration("AUTH_DEBOUNCE", auth.DefaultDebounceWindow),
			ProfileTimeout: config.GetDuration("PROFILE_TIMEOUT", auth.DefaultProfileTimeout),
		},
		IdleTTL: config.GetDuration("SESSION_IDLE_TTL", session.DefaultIdleTTL),
	}, logger)
	defer registry.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Run(ctx)

	qr := service.PickupQRGenerator{
		BaseURL: config.GetString("PUBLIC_BASE_URL", "http://localhost:8080"),
		Size:    config.GetInt("QR_SIZE", 256),
	}
	menuSvc := service.NewMenuService(repo)
	orderSvc := service.NewOrderService(repo, qr, publisher, logger).
		WithPaymentStatus(storage.NewRedisPaymentStatus(redisClient))

	handler := httpapi.NewRouter(httpapi.NewHandler(registry, menuSvc, orderSvc, logger))

	if err := config.Serve(config.GetString("STOREFRONT_ADDR", ":8083"), handler, logger); err != nil {
		logger.Fatalw("storefront service stopped", "error", err)
	}
}

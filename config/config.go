package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Load reads a .env file when one is present. Real environment variables win.
func Load() {
	_ = godotenv.Load()
}

func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func NewLogger(env, service string) *zap.SugaredLogger {
	var logger *zap.Logger
	if env == "development" {
		logger = zap.Must(zap.NewDevelopment())
	} else {
		logger = zap.Must(zap.NewProduction())
	}
	return logger.Sugar().With("service", service)
}

func PostgresDSN() string {
	return "host=" + GetString("DB_HOST", "localhost") +
		" port=" + GetString("DB_PORT", "5432") +
		" user=" + GetString("DB_USER", "postgres") +
		" password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + GetString("DB_NAME", "zomatify") +
		" sslmode=" + GetString("DB_SSLMODE", "disable")
}

func MustInitPostgres(logger *zap.SugaredLogger) *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}

	if err = db.Ping(); err != nil {
		logger.Fatalw("failed to ping database", "error", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(logger *zap.SugaredLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: GetString("REDIS_HOST", "localhost") + ":" + GetString("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatalw("failed to connect to redis", "error", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{GetString("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

// NewKafkaWriter returns nil when KAFKA_BROKER is unset so publishers can be skipped.
func NewKafkaWriter(topic string) *kafka.Writer {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

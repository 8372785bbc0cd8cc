package storage

import (
	"context"
	"errors"
	"time"

	"zomatify/storefront-svc/internal/cart"

	"github.com/redis/go-redis/v9"
)

// RedisCartStorage keeps one cart snapshot per session.
type RedisCartStorage struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStorage(client *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{Client: client, TTL: ttl}
}

func (s *RedisCartStorage) CartKey(sessionID string) string {
	return "session:" + sessionID + ":" + cart.StorageKey
}

func (s *RedisCartStorage) ForSession(sessionID string) cart.Storage {
	return &sessionCart{store: s, key: s.CartKey(sessionID)}
}

type sessionCart struct {
	store *RedisCartStorage
	key   string
}

func (c *sessionCart) Load(ctx context.Context) ([]byte, error) {
	raw, err := c.store.Client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return raw, err
}

func (c *sessionCart) Save(ctx context.Context, snapshot []byte) error {
	return c.store.Client.Set(ctx, c.key, snapshot, c.store.TTL).Err()
}

// RedisPaymentStatus reads the per-payment status hash written by the
// reconciliation consumer.
type RedisPaymentStatus struct {
	Client *redis.Client
}

func NewRedisPaymentStatus(client *redis.Client) *RedisPaymentStatus {
	return &RedisPaymentStatus{Client: client}
}

func PaymentStatusKey(paymentOrderID string) string {
	return "order:payment:" + paymentOrderID
}

func (s *RedisPaymentStatus) PaymentStatus(ctx context.Context, paymentOrderID string) (string, error) {
	status, err := s.Client.HGet(ctx, PaymentStatusKey(paymentOrderID), "status").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return status, err
}

package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
)

const PaymentStatusTTL = 24 * time.Hour

type Store struct {
	db  *sql.DB
	rdb *redis.Client
	now func() time.Time
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		now: time.Now,
	}
}

func PaymentStatusKey(paymentOrderID string) string {
	return "order:payment:" + paymentOrderID
}

func (s *Store) MarkOrdersPaid(ctx context.Context, paymentOrderID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'paid'
		WHERE payment_order_id = $1
	`, paymentOrderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) CachePaymentStatus(ctx context.Context, paymentOrderID, status string) error {
	key := PaymentStatusKey(paymentOrderID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"status":       status,
			"last_updated": s.now().Unix(),
		})
		pipe.Expire(ctx, key, PaymentStatusTTL)
		return nil
	})
	return err
}

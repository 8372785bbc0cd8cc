package storage

import (
	"context"
	"database/sql"
	"fmt"

	"zomatify/payment-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) RecordOrder(ctx context.Context, order *domain.GatewayOrder) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payment_orders (id, receipt, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
	`, order.ID, order.Receipt, order.Amount, order.Currency, order.Status)
	return err
}

func (r *PostgresRepository) RecordVerification(ctx context.Context, orderID, paymentID string, verified bool) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE payment_orders
		SET payment_id = $1, verified = $2, verified_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, paymentID, verified, orderID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("payment order %s: %w", orderID, sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS payment_orders (
			id TEXT PRIMARY KEY,
			receipt TEXT NOT NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_id TEXT,
			verified BOOLEAN,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			verified_at TIMESTAMPTZ
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

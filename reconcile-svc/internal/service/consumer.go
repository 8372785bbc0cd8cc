package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"zomatify/reconcile-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrMissingOrderID = errors.New("payment event has no order id")

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 500 * time.Millisecond
)

type Consumer struct {
	Reader      MessageReader
	Store       StoreInterface
	Logger      *zap.SugaredLogger
	MaxAttempts int
	Backoff     time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *zap.SugaredLogger) *Consumer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Consumer{
		Reader:      reader,
		Store:       store,
		Logger:      logger,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff,
	}
}

// Start consumes until ctx is cancelled or the reader is closed. A message is
// committed once it has been handled or has exhausted its attempts.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info("starting reconciliation consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			c.Logger.Errorw("failed to read message", "error", err)
			continue
		}

		c.handle(ctx, message)

		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			c.Logger.Errorw("failed to commit message", "offset", message.Offset, "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, message kafka.Message) {
	var event domain.PaymentEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		c.Logger.Errorw("failed to unmarshal message", "offset", message.Offset, "error", err)
		return
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.ProcessPayment(ctx, event)
		if err == nil || errors.Is(err, ErrMissingOrderID) {
			if err != nil {
				c.Logger.Warnw("dropping payment event", "payment_id", event.PaymentID, "error", err)
			}
			return
		}

		c.Logger.Errorw("failed to process payment event",
			"order_id", event.OrderID, "attempt", attempt, "error", err)
		if attempt == attempts {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.Backoff * time.Duration(attempt)):
		}
	}
}

// ProcessPayment marks every order placed against a verified gateway order as paid.
func (c *Consumer) ProcessPayment(ctx context.Context, event domain.PaymentEvent) error {
	if event.Type != domain.EventPaymentVerified {
		return nil
	}
	if !event.Verified {
		c.Logger.Warnw("payment failed verification, order left unpaid",
			"order_id", event.OrderID, "payment_id", event.PaymentID)
		return nil
	}
	if event.OrderID == "" {
		return ErrMissingOrderID
	}

	updated, err := c.Store.MarkOrdersPaid(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("mark orders paid: %w", err)
	}
	if updated == 0 {
		c.Logger.Warnw("no orders reference payment order", "order_id", event.OrderID)
	}

	if err := c.Store.CachePaymentStatus(ctx, event.OrderID, domain.PaymentStatusPaid); err != nil {
		c.Logger.Warnw("failed to cache payment status", "order_id", event.OrderID, "error", err)
	}

	c.Logger.Infow("payment reconciled", "order_id", event.OrderID, "payment_id", event.PaymentID, "orders", updated)
	return nil
}

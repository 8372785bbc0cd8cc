package service

import (
	"context"

	"zomatify/reconcile-svc/internal/domain"
	"zomatify/reconcile-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	MarkOrdersPaid(ctx context.Context, paymentOrderID string) (int64, error)
	CachePaymentStatus(ctx context.Context, paymentOrderID, status string) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessPayment(ctx context.Context, event domain.PaymentEvent) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)

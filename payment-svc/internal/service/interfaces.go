package service

import (
	"context"

	"zomatify/payment-svc/internal/domain"
)

type PaymentServiceInterface interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.OrderResponse, error)
	Verify(ctx context.Context, req domain.VerifyRequest) (bool, error)
	CredentialsReport() domain.CredentialsReport
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, order domain.GatewayOrderRequest) (*domain.GatewayOrder, error)
}

type PaymentLedger interface {
	RecordOrder(ctx context.Context, order *domain.GatewayOrder) error
	RecordVerification(ctx context.Context, orderID, paymentID string, verified bool) error
}

type PaymentPublisher interface {
	PublishPayment(ctx context.Context, event domain.PaymentEvent) error
}

var _ PaymentServiceInterface = (*PaymentService)(nil)

package mocks

import (
	"context"

	"zomatify/payment-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderGateway struct {
	mock.Mock
}

func (m *OrderGateway) CreateOrder(ctx context.Context, order domain.GatewayOrderRequest) (*domain.GatewayOrder, error) {
	args := m.Called(ctx, order)
	var created *domain.GatewayOrder
	if v := args.Get(0); v != nil {
		created = v.(*domain.GatewayOrder)
	}
	return created, args.Error(1)
}

func NewOrderGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderGateway {
	m := &OrderGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type PaymentLedger struct {
	mock.Mock
}

func (m *PaymentLedger) RecordOrder(ctx context.Context, order *domain.GatewayOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *PaymentLedger) RecordVerification(ctx context.Context, orderID, paymentID string, verified bool) error {
	return m.Called(ctx, orderID, paymentID, verified).Error(0)
}

func NewPaymentLedger(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentLedger {
	m := &PaymentLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type PaymentPublisher struct {
	mock.Mock
}

func (m *PaymentPublisher) PublishPayment(ctx context.Context, event domain.PaymentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func NewPaymentPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentPublisher {
	m := &PaymentPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

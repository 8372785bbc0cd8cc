package mocks

import (
	"context"

	"zomatify/payment-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type PaymentServiceInterface struct {
	mock.Mock
}

func (m *PaymentServiceInterface) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.OrderResponse, error) {
	args := m.Called(ctx, req)
	var order *domain.OrderResponse
	if v := args.Get(0); v != nil {
		order = v.(*domain.OrderResponse)
	}
	return order, args.Error(1)
}

func (m *PaymentServiceInterface) Verify(ctx context.Context, req domain.VerifyRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *PaymentServiceInterface) CredentialsReport() domain.CredentialsReport {
	args := m.Called()
	return args.Get(0).(domain.CredentialsReport)
}

func NewPaymentServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentServiceInterface {
	m := &PaymentServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

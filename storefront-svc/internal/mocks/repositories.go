package mocks

import (
	"context"

	"zomatify/storefront-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MenuRepository struct {
	mock.Mock
}

func (m *MenuRepository) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	var items []domain.MenuItem
	if v := args.Get(0); v != nil {
		items = v.([]domain.MenuItem)
	}
	return items, args.Error(1)
}

func (m *MenuRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	var item *domain.MenuItem
	if v := args.Get(0); v != nil {
		item = v.(*domain.MenuItem)
	}
	return item, args.Error(1)
}

func NewMenuRepository(t testingT) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	return m.Called(ctx, orderID, qr).Error(0)
}

func (m *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	args := m.Called(ctx, orderID)
	var qr []byte
	if v := args.Get(0); v != nil {
		qr = v.([]byte)
	}
	return qr, args.Error(1)
}

func (m *OrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	var order *domain.Order
	if v := args.Get(0); v != nil {
		order = v.(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return ordersArg(args, 0), args.Error(1)
}

func (m *OrderRepository) ListGroupOrders(ctx context.Context, groupOrderID string) ([]domain.Order, error) {
	args := m.Called(ctx, groupOrderID)
	return ordersArg(args, 0), args.Error(1)
}

func ordersArg(args mock.Arguments, i int) []domain.Order {
	if v := args.Get(i); v != nil {
		return v.([]domain.Order)
	}
	return nil
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type OrderPublisher struct {
	mock.Mock
}

func (m *OrderPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func NewOrderPublisher(t testingT) *OrderPublisher {
	m := &OrderPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	args := m.Called(orderID)
	var qr []byte
	if v := args.Get(0); v != nil {
		qr = v.([]byte)
	}
	return qr, args.Error(1)
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type PaymentStatusReader struct {
	mock.Mock
}

func (m *PaymentStatusReader) PaymentStatus(ctx context.Context, paymentOrderID string) (string, error) {
	args := m.Called(ctx, paymentOrderID)
	return args.String(0), args.Error(1)
}

func NewPaymentStatusReader(t testingT) *PaymentStatusReader {
	m := &PaymentStatusReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

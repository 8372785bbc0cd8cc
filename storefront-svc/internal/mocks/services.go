package mocks

import (
	"context"

	"zomatify/storefront-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuServiceInterface struct {
	mock.Mock
}

func (m *MenuServiceInterface) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	var items []domain.MenuItem
	if v := args.Get(0); v != nil {
		items = v.([]domain.MenuItem)
	}
	return items, args.Error(1)
}

func (m *MenuServiceInterface) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	var item *domain.MenuItem
	if v := args.Get(0); v != nil {
		item = v.(*domain.MenuItem)
	}
	return item, args.Error(1)
}

func (m *MenuServiceInterface) ResolveSelection(ctx context.Context, itemID int, optionIDs []int) (*domain.MenuItem, []domain.MenuOption, error) {
	args := m.Called(ctx, itemID, optionIDs)
	var item *domain.MenuItem
	if v := args.Get(0); v != nil {
		item = v.(*domain.MenuItem)
	}
	var options []domain.MenuOption
	if v := args.Get(1); v != nil {
		options = v.([]domain.MenuOption)
	}
	return item, options, args.Error(2)
}

func NewMenuServiceInterface(t testingT) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type OrderServiceInterface struct {
	mock.Mock
}

func (m *OrderServiceInterface) Checkout(ctx context.Context, userID string, cart domain.CartState, req domain.CheckoutRequest) (*domain.Order, error) {
	args := m.Called(ctx, userID, cart, req)
	return orderArg(args, 0), args.Error(1)
}

func (m *OrderServiceInterface) List(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return ordersArg(args, 0), args.Error(1)
}

func (m *OrderServiceInterface) Get(ctx context.Context, userID string, orderID int) (*domain.Order, error) {
	args := m.Called(ctx, userID, orderID)
	return orderArg(args, 0), args.Error(1)
}

func (m *OrderServiceInterface) QRCode(ctx context.Context, userID string, orderID int) ([]byte, error) {
	args := m.Called(ctx, userID, orderID)
	var qr []byte
	if v := args.Get(0); v != nil {
		qr = v.([]byte)
	}
	return qr, args.Error(1)
}

func (m *OrderServiceInterface) GroupOrder(ctx context.Context, groupOrderID string) (*domain.GroupOrder, error) {
	args := m.Called(ctx, groupOrderID)
	var group *domain.GroupOrder
	if v := args.Get(0); v != nil {
		group = v.(*domain.GroupOrder)
	}
	return group, args.Error(1)
}

func orderArg(args mock.Arguments, i int) *domain.Order {
	if v := args.Get(i); v != nil {
		return v.(*domain.Order)
	}
	return nil
}

func NewOrderServiceInterface(t testingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

package service

import (
	"context"

	"zomatify/storefront-svc/internal/domain"
)

type MenuRepository interface {
	ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListGroupOrders(ctx context.Context, groupOrderID string) ([]domain.Order, error)
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

// PaymentStatusReader reports what the payment pipeline has already recorded
// for a payment order. An empty status means nothing is known yet.
type PaymentStatusReader interface {
	PaymentStatus(ctx context.Context, paymentOrderID string) (string, error)
}

type MenuServiceInterface interface {
	ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	ResolveSelection(ctx context.Context, itemID int, optionIDs []int) (*domain.MenuItem, []domain.MenuOption, error)
}

type OrderServiceInterface interface {
	Checkout(ctx context.Context, userID string, cart domain.CartState, req domain.CheckoutRequest) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, userID string, orderID int) (*domain.Order, error)
	QRCode(ctx context.Context, userID string, orderID int) ([]byte, error)
	GroupOrder(ctx context.Context, groupOrderID string) (*domain.GroupOrder, error)
}

var (
	_ MenuServiceInterface  = (*MenuService)(nil)
	_ OrderServiceInterface = (*OrderService)(nil)
)

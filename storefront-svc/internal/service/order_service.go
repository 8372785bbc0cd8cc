package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zomatify/storefront-svc/internal/cart"
	"zomatify/storefront-svc/internal/domain"

	"go.uber.org/zap"
)

const EventOrderPlaced = "order_placed"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMixedRestaurants  = errors.New("cart contains items from more than one restaurant")
	ErrScheduleInPast    = errors.New("scheduled pickup time must be in the future")
	ErrOrderNotFound     = errors.New("order not found")
	ErrGroupNotFound     = errors.New("group order not found")
	ErrMissingGroupOrder = errors.New("group order id is required")
)

type OrderService struct {
	repo      OrderRepository
	qr        QRGenerator
	publisher OrderPublisher
	payments  PaymentStatusReader
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewOrderService wires checkout and history. qr and publisher may be nil.
func NewOrderService(repo OrderRepository, qr QRGenerator, publisher OrderPublisher, logger *zap.SugaredLogger) *OrderService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderService{
		repo:      repo,
		qr:        qr,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// WithPaymentStatus lets Checkout mark an order paid when its payment was
// verified before the order was placed.
func (s *OrderService) WithPaymentStatus(payments PaymentStatusReader) *OrderService {
	s.payments = payments
	return s
}

func (s *OrderService) initialPaymentStatus(ctx context.Context, paymentOrderID string) string {
	if paymentOrderID == "" {
		return domain.PaymentStatusUnpaid
	}
	if s.payments == nil {
		return domain.PaymentStatusPending
	}
	status, err := s.payments.PaymentStatus(ctx, paymentOrderID)
	if err != nil {
		s.logger.Warnw("failed to read payment status", "payment_order_id", paymentOrderID, "error", err)
		return domain.PaymentStatusPending
	}
	if status == domain.PaymentStatusPaid {
		return domain.PaymentStatusPaid
	}
	return domain.PaymentStatusPending
}

func optionNames(options []domain.MenuOption) string {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}
	return strings.Join(names, ", ")
}

// Checkout turns a cart snapshot into a persisted order. The caller clears the
// cart once this returns without error.
func (s *OrderService) Checkout(ctx context.Context, userID string, state domain.CartState, req domain.CheckoutRequest) (*domain.Order, error) {
	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}
	restaurantID := state.Items[0].MenuItem.RestaurantID
	for _, item := range state.Items[1:] {
		if item.MenuItem.RestaurantID != restaurantID {
			return nil, ErrMixedRestaurants
		}
	}
	if req.ScheduledFor != nil && !req.ScheduledFor.After(s.now()) {
		return nil, ErrScheduleInPast
	}

	total, _ := cart.Totals(state.Items)
	order := &domain.Order{
		UserID:         userID,
		RestaurantID:   restaurantID,
		TotalAmount:    total,
		Status:         domain.OrderStatusPlaced,
		PaymentStatus:  s.initialPaymentStatus(ctx, req.PaymentOrderID),
		PaymentOrderID: req.PaymentOrderID,
		GroupOrderID:   req.GroupOrderID,
		ScheduledFor:   req.ScheduledFor,
	}
	if req.ScheduledFor != nil {
		order.Status = domain.OrderStatusScheduled
	}
	for _, item := range state.Items {
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID:          item.MenuItem.ID,
			Name:                item.MenuItem.Name,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice(),
			SpecialInstructions: item.SpecialInstructions,
			Options:             optionNames(item.SelectedOptions),
		})
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.Infow("order placed", "order_id", order.ID, "user_id", userID, "restaurant_id", restaurantID, "total", total)

	if s.qr != nil {
		if qr, err := s.qr.Generate(order.ID); err == nil {
			if err := s.repo.SaveQRCode(ctx, order.ID, qr); err != nil {
				s.logger.Warnw("failed to store pickup code", "order_id", order.ID, "error", err)
			}
		} else {
			s.logger.Warnw("failed to generate pickup code", "order_id", order.ID, "error", err)
		}
	}
	order.QRCodeURL = QRLink(order.ID)

	if s.publisher != nil {
		event := domain.OrderEvent{
			Type:         EventOrderPlaced,
			OrderID:      order.ID,
			UserID:       userID,
			RestaurantID: restaurantID,
			TotalAmount:  total,
			Timestamp:    s.now().UTC(),
		}
		if err := s.publisher.PublishOrder(ctx, event); err != nil {
			s.logger.Warnw("failed to publish order event", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].QRCodeURL = QRLink(orders[i].ID)
	}
	return orders, nil
}

// Get returns the order only to the user who placed it.
func (s *OrderService) Get(ctx context.Context, userID string, orderID int) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	order.QRCodeURL = QRLink(order.ID)
	return order, nil
}

func (s *OrderService) QRCode(ctx context.Context, userID string, orderID int) ([]byte, error) {
	if _, err := s.Get(ctx, userID, orderID); err != nil {
		return nil, err
	}

	qr, err := s.repo.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qr != nil {
		regenerated, err := s.qr.Generate(orderID)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SaveQRCode(ctx, orderID, regenerated); err != nil {
			s.logger.Warnw("failed to store pickup code", "order_id", orderID, "error", err)
		}
		return regenerated, nil
	}
	return qr, nil
}

func (s *OrderService) GroupOrder(ctx context.Context, groupOrderID string) (*domain.GroupOrder, error) {
	if groupOrderID == "" {
		return nil, ErrMissingGroupOrder
	}
	orders, err := s.repo.ListGroupOrders(ctx, groupOrderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrGroupNotFound
	}

	group := &domain.GroupOrder{ID: groupOrderID, Orders: orders}
	for _, o := range orders {
		group.Total += o.TotalAmount
	}
	return group, nil
}

func QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}

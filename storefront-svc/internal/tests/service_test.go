package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"zomatify/storefront-svc/internal/domain"
	"zomatify/storefront-svc/internal/mocks"
	"zomatify/storefront-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	raita   = domain.MenuOption{ID: 10, Name: "Extra raita", Price: 30}
	spicy   = domain.MenuOption{ID: 11, Name: "Extra spicy", Price: 0}
	biryani = domain.MenuItem{ID: 1, RestaurantID: 7, Name: "Biryani", Price: 250, IsAvailable: true, Options: []domain.MenuOption{raita, spicy}}
	naan    = domain.MenuItem{ID: 2, RestaurantID: 7, Name: "Naan", Price: 40, IsAvailable: true}
	dosa    = domain.MenuItem{ID: 3, RestaurantID: 8, Name: "Dosa", Price: 90, IsAvailable: true}
)

func cartOf(items ...domain.CartItem) domain.CartState {
	state := domain.CartState{Items: items}
	for _, item := range items {
		state.TotalPrice += item.UnitPrice() * float64(item.Quantity)
		state.TotalItems += item.Quantity
	}
	return state
}

func TestMenuService_ResolveSelection(t *testing.T) {
	ctx := context.Background()
	unavailable := naan
	unavailable.IsAvailable = false

	tests := []struct {
		name          string
		itemID        int
		optionIDs     []int
		prepareMocks  func(repo *mocks.MenuRepository)
		expectedError error
		wantOptions   []domain.MenuOption
	}{
		{
			name:      "resolves_options",
			itemID:    1,
			optionIDs: []int{11, 10},
			prepareMocks: func(repo *mocks.MenuRepository) {
				item := biryani
				repo.On("GetMenuItem", ctx, 1).Return(&item, nil).Once()
			},
			wantOptions: []domain.MenuOption{spicy, raita},
		},
		{
			name:   "no_options",
			itemID: 1,
			prepareMocks: func(repo *mocks.MenuRepository) {
				item := biryani
				repo.On("GetMenuItem", ctx, 1).Return(&item, nil).Once()
			},
		},
		{
			name:      "unknown_option",
			itemID:    1,
			optionIDs: []int{99},
			prepareMocks: func(repo *mocks.MenuRepository) {
				item := biryani
				repo.On("GetMenuItem", ctx, 1).Return(&item, nil).Once()
			},
			expectedError: service.ErrUnknownOption,
		},
		{
			name:   "unavailable",
			itemID: 2,
			prepareMocks: func(repo *mocks.MenuRepository) {
				repo.On("GetMenuItem", ctx, 2).Return(&unavailable, nil).Once()
			},
			expectedError: service.ErrMenuItemUnavailable,
		},
		{
			name:   "missing_item",
			itemID: 404,
			prepareMocks: func(repo *mocks.MenuRepository) {
				repo.On("GetMenuItem", ctx, 404).Return(nil, domain.ErrNotFound).Once()
			},
			expectedError: service.ErrMenuItemNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewMenuRepository(t)
			testCase.prepareMocks(repo)

			item, options, err := service.NewMenuService(repo).ResolveSelection(ctx, testCase.itemID, testCase.optionIDs)

			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.itemID, item.ID)
			assert.Equal(t, testCase.wantOptions, options)
		})
	}
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	future := fixedNow.Add(2 * time.Hour)
	past := fixedNow.Add(-time.Minute)
	png := []byte("png")

	fullCart := cartOf(
		domain.CartItem{ID: "a", MenuItem: biryani, Quantity: 2, SpecialInstructions: "less oil", SelectedOptions: []domain.MenuOption{raita, spicy}},
		domain.CartItem{ID: "b", MenuItem: naan, Quantity: 3},
	)

	tests := []struct {
		name          string
		cart          domain.CartState
		request       domain.CheckoutRequest
		prepareMocks  func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher)
		expectedError error
		check         func(t *testing.T, order *domain.Order)
	}{
		{
			name:    "pay_at_pickup",
			cart:    fullCart,
			request: domain.CheckoutRequest{},
			prepareMocks: func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {
				repo.On("CreateOrder", ctx, mock.MatchedBy(func(o *domain.Order) bool {
					return o.UserID == "user-1" &&
						o.RestaurantID == 7 &&
						o.TotalAmount == 680 &&
						o.Status == domain.OrderStatusPlaced &&
						o.PaymentStatus == domain.PaymentStatusUnpaid &&
						len(o.Items) == 2 &&
						o.Items[0].UnitPrice == 280 &&
						o.Items[0].Options == "Extra raita, Extra spicy" &&
						o.Items[0].SpecialInstructions == "less oil"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = 42
				}).Return(nil).Once()
				qr.On("Generate", 42).Return(png, nil).Once()
				repo.On("SaveQRCode", ctx, 42, png).Return(nil).Once()
				pub.On("PublishOrder", ctx, domain.OrderEvent{
					Type: service.EventOrderPlaced, OrderID: 42, UserID: "user-1", RestaurantID: 7, TotalAmount: 680, Timestamp: fixedNow,
				}).Return(nil).Once()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, 42, order.ID)
				assert.Equal(t, "/api/orders/42/qrcode", order.QRCodeURL)
			},
		},
		{
			name:    "prepaid_and_scheduled",
			cart:    fullCart,
			request: domain.CheckoutRequest{PaymentOrderID: "order_rzp_1", ScheduledFor: &future, GroupOrderID: "grp-1"},
			prepareMocks: func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {
				repo.On("CreateOrder", ctx, mock.MatchedBy(func(o *domain.Order) bool {
					return o.Status == domain.OrderStatusScheduled &&
						o.PaymentStatus == domain.PaymentStatusPending &&
						o.PaymentOrderID == "order_rzp_1" &&
						o.GroupOrderID == "grp-1" &&
						o.ScheduledFor.Equal(future)
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = 43
				}).Return(nil).Once()
				qr.On("Generate", 43).Return(png, nil).Once()
				repo.On("SaveQRCode", ctx, 43, png).Return(nil).Once()
				pub.On("PublishOrder", ctx, mock.Anything).Return(nil).Once()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, 43, order.ID)
			},
		},
		{
			name:    "side_effects_are_best_effort",
			cart:    fullCart,
			request: domain.CheckoutRequest{},
			prepareMocks: func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {
				repo.On("CreateOrder", ctx, mock.Anything).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = 44
				}).Return(nil).Once()
				qr.On("Generate", 44).Return(nil, errors.New("encoder failed")).Once()
				pub.On("PublishOrder", ctx, mock.Anything).Return(errors.New("broker down")).Once()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, 44, order.ID)
			},
		},
		{
			name:          "empty_cart",
			cart:          domain.CartState{},
			prepareMocks:  func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {},
			expectedError: service.ErrEmptyCart,
		},
		{
			name: "mixed_restaurants",
			cart: cartOf(
				domain.CartItem{ID: "a", MenuItem: biryani, Quantity: 1},
				domain.CartItem{ID: "c", MenuItem: dosa, Quantity: 1},
			),
			prepareMocks:  func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {},
			expectedError: service.ErrMixedRestaurants,
		},
		{
			name:          "schedule_in_past",
			cart:          fullCart,
			request:       domain.CheckoutRequest{ScheduledFor: &past},
			prepareMocks:  func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {},
			expectedError: service.ErrScheduleInPast,
		},
		{
			name:    "repository_failure",
			cart:    fullCart,
			request: domain.CheckoutRequest{},
			prepareMocks: func(repo *mocks.OrderRepository, qr *mocks.QRGenerator, pub *mocks.OrderPublisher) {
				repo.On("CreateOrder", ctx, mock.Anything).Return(errors.New("db error")).Once()
			},
			expectedError: errors.New("create order: db error"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			qr := mocks.NewQRGenerator(t)
			pub := mocks.NewOrderPublisher(t)
			testCase.prepareMocks(repo, qr, pub)

			svc := service.NewOrderService(repo, qr, pub, nil).WithClock(func() time.Time { return fixedNow })
			order, err := svc.Checkout(ctx, "user-1", testCase.cart, testCase.request)

			if testCase.expectedError != nil {
				assert.EqualError(t, err, testCase.expectedError.Error())
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			testCase.check(t, order)
		})
	}
}

func TestOrderService_CheckoutPaymentStatus(t *testing.T) {
	ctx := context.Background()
	basket := cartOf(domain.CartItem{ID: "a", MenuItem: naan, Quantity: 1})

	tests := []struct {
		name         string
		cached       string
		cacheErr     error
		expectedPaid string
	}{
		{name: "verified_before_checkout", cached: domain.PaymentStatusPaid, expectedPaid: domain.PaymentStatusPaid},
		{name: "not_yet_verified", cached: "", expectedPaid: domain.PaymentStatusPending},
		{name: "cache_unavailable", cacheErr: errors.New("redis down"), expectedPaid: domain.PaymentStatusPending},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			payments := mocks.NewPaymentStatusReader(t)
			payments.On("PaymentStatus", ctx, "order_rzp_9").Return(testCase.cached, testCase.cacheErr).Once()
			repo.On("CreateOrder", ctx, mock.MatchedBy(func(o *domain.Order) bool {
				return o.PaymentOrderID == "order_rzp_9" && o.PaymentStatus == testCase.expectedPaid
			})).Return(nil).Once()

			order, err := service.NewOrderService(repo, nil, nil, nil).
				WithPaymentStatus(payments).
				Checkout(ctx, "user-1", basket, domain.CheckoutRequest{PaymentOrderID: "order_rzp_9"})

			require.NoError(t, err)
			assert.Equal(t, testCase.expectedPaid, order.PaymentStatus)
		})
	}

	t.Run("pay_at_pickup_skips_lookup", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		payments := mocks.NewPaymentStatusReader(t)
		repo.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()

		order, err := service.NewOrderService(repo, nil, nil, nil).
			WithPaymentStatus(payments).
			Checkout(ctx, "user-1", basket, domain.CheckoutRequest{})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusUnpaid, order.PaymentStatus)
	})
}

func TestOrderService_CheckoutWithoutOptionalCollaborators(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewOrderRepository(t)
	repo.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()

	order, err := service.NewOrderService(repo, nil, nil, nil).
		Checkout(ctx, "user-1", cartOf(domain.CartItem{ID: "a", MenuItem: naan, Quantity: 1}), domain.CheckoutRequest{})

	require.NoError(t, err)
	assert.Equal(t, 40.0, order.TotalAmount)
}

func TestOrderService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        string
		prepareMocks  func(repo *mocks.OrderRepository)
		expectedError error
	}{
		{
			name:   "owner",
			userID: "user-1",
			prepareMocks: func(repo *mocks.OrderRepository) {
				repo.On("GetOrder", ctx, 42).Return(&domain.Order{ID: 42, UserID: "user-1"}, nil).Once()
			},
		},
		{
			name:   "someone_else",
			userID: "user-2",
			prepareMocks: func(repo *mocks.OrderRepository) {
				repo.On("GetOrder", ctx, 42).Return(&domain.Order{ID: 42, UserID: "user-1"}, nil).Once()
			},
			expectedError: service.ErrOrderNotFound,
		},
		{
			name:   "missing",
			userID: "user-1",
			prepareMocks: func(repo *mocks.OrderRepository) {
				repo.On("GetOrder", ctx, 42).Return(nil, domain.ErrNotFound).Once()
			},
			expectedError: service.ErrOrderNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			testCase.prepareMocks(repo)

			order, err := service.NewOrderService(repo, nil, nil, nil).Get(ctx, testCase.userID, 42)

			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/api/orders/42/qrcode", order.QRCodeURL)
		})
	}
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewOrderRepository(t)
	repo.On("ListOrdersByUser", ctx, "user-1").Return([]domain.Order{{ID: 2}, {ID: 1}}, nil).Once()

	orders, err := service.NewOrderService(repo, nil, nil, nil).List(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "/api/orders/2/qrcode", orders[0].QRCodeURL)
}

func TestOrderService_QRCode(t *testing.T) {
	ctx := context.Background()
	stored := []byte("stored")
	fresh := []byte("fresh")

	t.Run("stored_code", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("GetOrder", ctx, 42).Return(&domain.Order{ID: 42, UserID: "user-1"}, nil).Once()
		repo.On("GetQRCode", ctx, 42).Return(stored, nil).Once()

		qr, err := service.NewOrderService(repo, mocks.NewQRGenerator(t), nil, nil).QRCode(ctx, "user-1", 42)

		require.NoError(t, err)
		assert.Equal(t, stored, qr)
	})

	t.Run("regenerates_missing_code", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		gen := mocks.NewQRGenerator(t)
		repo.On("GetOrder", ctx, 42).Return(&domain.Order{ID: 42, UserID: "user-1"}, nil).Once()
		repo.On("GetQRCode", ctx, 42).Return(nil, nil).Once()
		gen.On("Generate", 42).Return(fresh, nil).Once()
		repo.On("SaveQRCode", ctx, 42, fresh).Return(nil).Once()

		qr, err := service.NewOrderService(repo, gen, nil, nil).QRCode(ctx, "user-1", 42)

		require.NoError(t, err)
		assert.Equal(t, fresh, qr)
	})

	t.Run("not_owner", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("GetOrder", ctx, 42).Return(&domain.Order{ID: 42, UserID: "user-1"}, nil).Once()

		_, err := service.NewOrderService(repo, nil, nil, nil).QRCode(ctx, "user-2", 42)

		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})
}

func TestOrderService_GroupOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("sums_member_orders", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("ListGroupOrders", ctx, "grp-1").
			Return([]domain.Order{{ID: 1, TotalAmount: 120.5}, {ID: 2, TotalAmount: 79.5}}, nil).Once()

		group, err := service.NewOrderService(repo, nil, nil, nil).GroupOrder(ctx, "grp-1")

		require.NoError(t, err)
		assert.Equal(t, "grp-1", group.ID)
		assert.Len(t, group.Orders, 2)
		assert.InDelta(t, 200.0, group.Total, 1e-9)
	})

	t.Run("unknown_group", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("ListGroupOrders", ctx, "grp-x").Return([]domain.Order{}, nil).Once()

		_, err := service.NewOrderService(repo, nil, nil, nil).GroupOrder(ctx, "grp-x")

		assert.ErrorIs(t, err, service.ErrGroupNotFound)
	})

	t.Run("missing_id", func(t *testing.T) {
		_, err := service.NewOrderService(mocks.NewOrderRepository(t), nil, nil, nil).GroupOrder(ctx, "")
		assert.ErrorIs(t, err, service.ErrMissingGroupOrder)
	})
}

func TestPickupQRGenerator(t *testing.T) {
	gen := service.PickupQRGenerator{BaseURL: "https://zomatify.example"}

	assert.Equal(t, "https://zomatify.example/orders/42/pickup", gen.PickupURL(42))

	png, err := gen.Generate(42)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

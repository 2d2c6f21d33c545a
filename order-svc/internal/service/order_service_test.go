package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/mocks"
	"food-delivery/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type orderFixture struct {
	repo        *mocks.OrderRepository
	restaurants *mocks.RestaurantRepository
	idempotency *mocks.IdempotencyStore
	publisher   *mocks.OrderPublisher
	qr          *mocks.QRGenerator
	svc         *service.OrderService
}

func newOrderFixture(t *testing.T, opts ...service.OrderServiceOption) *orderFixture {
	f := &orderFixture{
		repo:        mocks.NewOrderRepository(t),
		restaurants: mocks.NewRestaurantRepository(t),
		idempotency: mocks.NewIdempotencyStore(t),
		publisher:   mocks.NewOrderPublisher(t),
		qr:          mocks.NewQRGenerator(t),
	}
	opts = append([]service.OrderServiceOption{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIdempotencyStore(f.idempotency),
		service.WithPublisher(f.publisher),
		service.WithQRGenerator(f.qr),
	}, opts...)
	f.svc = service.NewOrderService(f.repo, f.restaurants, opts...)
	return f
}

func testRestaurant() *domain.Restaurant {
	return &domain.Restaurant{
		ID:                    7,
		OwnerID:               3,
		Name:                  "Pasta Place",
		DeliveryFee:           decimal.RequireFromString("2.00"),
		EstimatedDeliveryTime: 30,
		IsOpen:                true,
		IsActive:              true,
	}
}

func testCatalog() map[int]domain.MenuItem {
	return map[int]domain.MenuItem{
		1: {ID: 1, RestaurantID: 7, Name: "Lasagna", Price: decimal.RequireFromString("12.49"), IsAvailable: true},
		2: {ID: 2, RestaurantID: 7, Name: "Tiramisu", Price: decimal.RequireFromString("6.00"), IsAvailable: false},
		3: {ID: 3, RestaurantID: 8, Name: "Sushi", Price: decimal.RequireFromString("9.00"), IsAvailable: true},
	}
}

func testAddress() domain.Address {
	return domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
}

func placeRequest(lines ...service.OrderLine) service.PlaceOrderRequest {
	return service.PlaceOrderRequest{
		CustomerID:      5,
		RestaurantID:    7,
		Items:           lines,
		DeliveryAddress: testAddress(),
		PaymentMethod:   domain.PaymentCard,
	}
}

// priceWith makes the repository mock run the pricing callback against a fixture.
func priceWith(rest *domain.Restaurant, catalog map[int]domain.MenuItem, orderID int) func(int, []int, service.PricingFunc) (*domain.Order, error) {
	return func(_ int, _ []int, price service.PricingFunc) (*domain.Order, error) {
		order, err := price(rest, catalog)
		if err != nil {
			return nil, err
		}
		order.ID = orderID
		return order, nil
	}
}

func isEvent(eventType string) interface{} {
	return mock.MatchedBy(func(ev domain.OrderEvent) bool { return ev.Type == eventType })
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("prices_lines_from_catalog", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("Materialize", ctx, 7, []int{1}, mock.Anything).
			Return(priceWith(testRestaurant(), testCatalog(), 100)).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderPlaced)).Return(nil).Once()

		order, duplicate, err := f.svc.PlaceOrder(ctx, placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 2}))

		require.NoError(t, err)
		assert.False(t, duplicate)
		assert.Equal(t, 100, order.ID)
		assert.Equal(t, "24.98", order.Subtotal.StringFixed(2))
		assert.Equal(t, "2.00", order.DeliveryFee.StringFixed(2))
		assert.Equal(t, "2.50", order.Tax.StringFixed(2))
		assert.Equal(t, "29.48", order.Total.StringFixed(2))
		assert.Equal(t, domain.StatusPending, order.OrderStatus)
		assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
		assert.Equal(t, fixedNow.Add(30*time.Minute), order.EstimatedDeliveryTime)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Lasagna", order.Items[0].Name)
		assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("12.49")))
	})

	t.Run("repeated_item_is_loaded_once", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("Materialize", ctx, 7, []int{1}, mock.Anything).
			Return(priceWith(testRestaurant(), testCatalog(), 101)).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderPlaced)).Return(nil).Once()

		order, _, err := f.svc.PlaceOrder(ctx, placeRequest(
			service.OrderLine{MenuItemID: 1, Quantity: 1},
			service.OrderLine{MenuItemID: 1, Quantity: 1, SpecialInstructions: "extra cheese"},
		))

		require.NoError(t, err)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, "24.98", order.Subtotal.StringFixed(2))
	})

	tests := []struct {
		name          string
		request       service.PlaceOrderRequest
		restaurant    *domain.Restaurant
		ids           []int
		expectedError error
	}{
		{
			name:          "unavailable_item",
			request:       placeRequest(service.OrderLine{MenuItemID: 2, Quantity: 1}),
			restaurant:    testRestaurant(),
			ids:           []int{2},
			expectedError: service.ErrItemUnavailable,
		},
		{
			name:          "unknown_item",
			request:       placeRequest(service.OrderLine{MenuItemID: 99, Quantity: 1}),
			restaurant:    testRestaurant(),
			ids:           []int{99},
			expectedError: service.ErrItemUnavailable,
		},
		{
			name:          "item_from_other_restaurant",
			request:       placeRequest(service.OrderLine{MenuItemID: 3, Quantity: 1}),
			restaurant:    testRestaurant(),
			ids:           []int{3},
			expectedError: service.ErrItemUnavailable,
		},
		{
			name:          "restaurant_missing",
			request:       placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 1}),
			restaurant:    nil,
			ids:           []int{1},
			expectedError: service.ErrNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			f.repo.On("Materialize", ctx, 7, testCase.ids, mock.Anything).
				Return(priceWith(testCase.restaurant, testCatalog(), 0)).Once()

			order, _, err := f.svc.PlaceOrder(ctx, testCase.request)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}
}

func TestOrderService_PlaceOrderValidation(t *testing.T) {
	ctx := context.Background()

	noAddress := placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 1})
	noAddress.DeliveryAddress = domain.Address{}

	blankStreet := placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 1})
	blankStreet.DeliveryAddress.Street = "   "

	badPayment := placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 1})
	badPayment.PaymentMethod = "iou"

	tests := []struct {
		name    string
		request service.PlaceOrderRequest
	}{
		{name: "no_items", request: placeRequest()},
		{name: "zero_quantity", request: placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 0})},
		{name: "missing_menu_item", request: placeRequest(service.OrderLine{Quantity: 1})},
		{name: "incomplete_address", request: noAddress},
		{name: "blank_street", request: blankStreet},
		{name: "unknown_payment_method", request: badPayment},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			_, _, err := f.svc.PlaceOrder(ctx, testCase.request)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestOrderService_PlaceOrderIdempotency(t *testing.T) {
	ctx := context.Background()
	key := "idempotency:order:5:retry-1"

	keyed := func() service.PlaceOrderRequest {
		req := placeRequest(service.OrderLine{MenuItemID: 1, Quantity: 2})
		req.IdempotencyKey = "retry-1"
		return req
	}

	t.Run("first_request_records_order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.idempotency.On("Reserve", ctx, key).Return(true, 0, nil).Once()
		f.repo.On("Materialize", ctx, 7, []int{1}, mock.Anything).
			Return(priceWith(testRestaurant(), testCatalog(), 100)).Once()
		f.idempotency.On("Complete", ctx, key, 100).Return(nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderPlaced)).Return(nil).Once()

		order, duplicate, err := f.svc.PlaceOrder(ctx, keyed())
		require.NoError(t, err)
		assert.False(t, duplicate)
		assert.Equal(t, 100, order.ID)
	})

	t.Run("retry_returns_original_order", func(t *testing.T) {
		f := newOrderFixture(t)
		existing := &domain.Order{ID: 100, CustomerID: 5, RestaurantID: 7, OrderStatus: domain.StatusPending}
		f.idempotency.On("Reserve", ctx, key).Return(false, 100, nil).Once()
		f.repo.On("GetOrder", ctx, 100).Return(existing, nil).Once()

		order, duplicate, err := f.svc.PlaceOrder(ctx, keyed())
		require.NoError(t, err)
		assert.True(t, duplicate)
		assert.Same(t, existing, order)
	})

	t.Run("retry_while_in_flight", func(t *testing.T) {
		f := newOrderFixture(t)
		f.idempotency.On("Reserve", ctx, key).Return(false, 0, nil).Once()

		_, _, err := f.svc.PlaceOrder(ctx, keyed())
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("failure_releases_key", func(t *testing.T) {
		f := newOrderFixture(t)
		f.idempotency.On("Reserve", ctx, key).Return(true, 0, nil).Once()
		f.repo.On("Materialize", ctx, 7, []int{1}, mock.Anything).
			Return(nil, errors.New("connection reset")).Once()
		f.idempotency.On("Release", ctx, key).Return(nil).Once()

		_, _, err := f.svc.PlaceOrder(ctx, keyed())
		assert.EqualError(t, err, "connection reset")
	})

	t.Run("store_error", func(t *testing.T) {
		f := newOrderFixture(t)
		f.idempotency.On("Reserve", ctx, key).Return(false, 0, errors.New("redis down")).Once()

		_, _, err := f.svc.PlaceOrder(ctx, keyed())
		assert.ErrorContains(t, err, "redis down")
	})
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	ctx := context.Background()
	noDelivery := (*time.Time)(nil)

	orderIn := func(status domain.Status) *domain.Order {
		return &domain.Order{ID: 100, CustomerID: 5, RestaurantID: 7, OrderStatus: status}
	}

	t.Run("owner_confirms_pending_order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(orderIn(domain.StatusPending), nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
		f.repo.On("UpdateStatus", ctx, 100, domain.StatusPending, domain.StatusConfirmed, noDelivery).Return(true, nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderStatusChanged)).Return(nil).Once()

		order, err := f.svc.AdvanceStatus(ctx, 100, 3, "confirmed")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, order.OrderStatus)
		assert.Nil(t, order.ActualDeliveryTime)
	})

	t.Run("delivery_stamps_time", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(orderIn(domain.StatusOutForDelivery), nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
		f.repo.On("UpdateStatus", ctx, 100, domain.StatusOutForDelivery, domain.StatusDelivered,
			mock.MatchedBy(func(at *time.Time) bool { return at != nil && at.Equal(fixedNow) })).Return(true, nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderStatusChanged)).Return(nil).Once()

		order, err := f.svc.AdvanceStatus(ctx, 100, 3, "delivered")
		require.NoError(t, err)
		require.NotNil(t, order.ActualDeliveryTime)
		assert.Equal(t, fixedNow, *order.ActualDeliveryTime)
	})

	t.Run("publish_failure_does_not_fail_transition", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(orderIn(domain.StatusConfirmed), nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
		f.repo.On("UpdateStatus", ctx, 100, domain.StatusConfirmed, domain.StatusPreparing, noDelivery).Return(true, nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		order, err := f.svc.AdvanceStatus(ctx, 100, 3, "preparing")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPreparing, order.OrderStatus)
	})

	t.Run("concurrent_change_conflicts", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(orderIn(domain.StatusPending), nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
		f.repo.On("UpdateStatus", ctx, 100, domain.StatusPending, domain.StatusCancelled, noDelivery).Return(false, nil).Once()

		_, err := f.svc.AdvanceStatus(ctx, 100, 3, "cancelled")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	tests := []struct {
		name          string
		from          domain.Status
		status        string
		actorID       int
		lookupOwner   bool
		expectedError error
	}{
		{name: "unknown_status", from: domain.StatusPending, status: "teleported", actorID: 3, expectedError: service.ErrInvalidInput},
		{name: "not_the_owner", from: domain.StatusPending, status: "confirmed", actorID: 5, lookupOwner: true, expectedError: service.ErrNotAuthorized},
		{name: "skipping_steps", from: domain.StatusPending, status: "delivered", actorID: 3, lookupOwner: true, expectedError: service.ErrInvalidState},
		{name: "leaving_terminal_state", from: domain.StatusDelivered, status: "cancelled", actorID: 3, lookupOwner: true, expectedError: service.ErrInvalidState},
		{name: "going_backwards", from: domain.StatusReady, status: "preparing", actorID: 3, lookupOwner: true, expectedError: service.ErrInvalidState},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			if testCase.lookupOwner {
				f.repo.On("GetOrder", ctx, 100).Return(orderIn(testCase.from), nil).Once()
				f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
			}

			_, err := f.svc.AdvanceStatus(ctx, 100, testCase.actorID, testCase.status)
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}

	t.Run("permissive_policy_allows_any_jump", func(t *testing.T) {
		f := newOrderFixture(t, service.WithTransitionPolicy(domain.PolicyPermissive))
		f.repo.On("GetOrder", ctx, 100).Return(orderIn(domain.StatusPending), nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
		f.repo.On("UpdateStatus", ctx, 100, domain.StatusPending, domain.StatusDelivered, mock.Anything).Return(true, nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil).Once()

		order, err := f.svc.AdvanceStatus(ctx, 100, 3, "delivered")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, order.OrderStatus)
	})

	t.Run("permissive_redelivery_restamps_time", func(t *testing.T) {
		f := newOrderFixture(t, service.WithTransitionPolicy(domain.PolicyPermissive))
		earlier := fixedNow.Add(-time.Hour)
		current := orderIn(domain.StatusDelivered)
		current.ActualDeliveryTime = &earlier
		f.repo.On("GetOrder", ctx, 100).Return(current, nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()
		f.repo.On("UpdateStatus", ctx, 100, domain.StatusDelivered, domain.StatusDelivered,
			mock.MatchedBy(func(at *time.Time) bool { return at != nil && at.Equal(fixedNow) })).Return(true, nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderStatusChanged)).Return(nil).Once()

		order, err := f.svc.AdvanceStatus(ctx, 100, 3, "delivered")
		require.NoError(t, err)
		require.NotNil(t, order.ActualDeliveryTime)
		assert.Equal(t, fixedNow, *order.ActualDeliveryTime)
	})
}

func TestOrderService_RateOrder(t *testing.T) {
	ctx := context.Background()

	delivered := func() *domain.Order {
		return &domain.Order{ID: 100, CustomerID: 5, RestaurantID: 7, OrderStatus: domain.StatusDelivered}
	}

	t.Run("customer_rates_delivered_order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(delivered(), nil).Once()
		f.repo.On("UpdateRating", ctx, 100, 5, "great").Return(nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(ev domain.OrderEvent) bool {
			return ev.Type == domain.EventOrderRated && ev.Rating == 5
		})).Return(nil).Once()

		order, err := f.svc.RateOrder(ctx, 100, 5, 5, "great")
		require.NoError(t, err)
		require.NotNil(t, order.Rating)
		assert.Equal(t, 5, *order.Rating)
		assert.Equal(t, "great", order.Review)
	})

	t.Run("rating_again_overwrites", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(delivered(), nil).Twice()
		f.repo.On("UpdateRating", ctx, 100, 2, "cold").Return(nil).Once()
		f.repo.On("UpdateRating", ctx, 100, 4, "better on reheat").Return(nil).Once()
		f.publisher.On("PublishOrderEvent", ctx, isEvent(domain.EventOrderRated)).Return(nil).Twice()

		_, err := f.svc.RateOrder(ctx, 100, 5, 2, "cold")
		require.NoError(t, err)
		order, err := f.svc.RateOrder(ctx, 100, 5, 4, "better on reheat")
		require.NoError(t, err)

		require.NotNil(t, order.Rating)
		assert.Equal(t, 4, *order.Rating)
		assert.Equal(t, "better on reheat", order.Review)
		f.repo.AssertNumberOfCalls(t, "UpdateRating", 2)
	})

	tests := []struct {
		name          string
		order         *domain.Order
		customerID    int
		rating        int
		expectedError error
	}{
		{name: "rating_too_low", customerID: 5, rating: 0, expectedError: service.ErrInvalidInput},
		{name: "rating_too_high", customerID: 5, rating: 6, expectedError: service.ErrInvalidInput},
		{name: "other_customer", order: delivered(), customerID: 6, rating: 4, expectedError: service.ErrNotAuthorized},
		{
			name:          "not_delivered",
			order:         &domain.Order{ID: 100, CustomerID: 5, OrderStatus: domain.StatusReady},
			customerID:    5,
			rating:        4,
			expectedError: service.ErrInvalidState,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			if testCase.order != nil {
				f.repo.On("GetOrder", ctx, 100).Return(testCase.order, nil).Once()
			}
			_, err := f.svc.RateOrder(ctx, 100, testCase.customerID, testCase.rating, "")
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}
}

func TestOrderService_Get(t *testing.T) {
	ctx := context.Background()
	order := &domain.Order{ID: 100, CustomerID: 5, RestaurantID: 7}

	t.Run("customer", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(order, nil).Once()

		got, err := f.svc.Get(ctx, 5, 100)
		require.NoError(t, err)
		assert.Equal(t, order, got)
	})

	t.Run("restaurant_owner", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(order, nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()

		_, err := f.svc.Get(ctx, 3, 100)
		assert.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(order, nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()

		_, err := f.svc.Get(ctx, 99, 100)
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}

func TestOrderService_ListForRestaurant(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture(t)
	f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Twice()
	f.repo.On("ListRestaurantOrders", ctx, 7).Return([]domain.Order{{ID: 2}, {ID: 1}}, nil).Once()

	orders, err := f.svc.ListForRestaurant(ctx, 3, 7)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = f.svc.ListForRestaurant(ctx, 5, 7)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)
}

func TestOrderService_ReceiptQRCode(t *testing.T) {
	ctx := context.Background()
	order := &domain.Order{ID: 100, CustomerID: 5, RestaurantID: 7}

	t.Run("customer", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(order, nil).Once()
		f.qr.On("Generate", 100).Return([]byte("png"), nil).Once()

		png, err := f.svc.ReceiptQRCode(ctx, 5, 100)
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), png)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", ctx, 100).Return(order, nil).Once()
		f.restaurants.On("GetRestaurant", ctx, 7).Return(testRestaurant(), nil).Once()

		_, err := f.svc.ReceiptQRCode(ctx, 99, 100)
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}

func TestDefaultQRGenerator(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "http://localhost:3000/"}.Generate(42)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

package mocks

import (
	"context"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

// AuthService is a mock type for the service.AuthServiceInterface type
type AuthService struct {
	mock.Mock
}

func (_m *AuthService) Register(ctx context.Context, req service.RegisterRequest) (*domain.User, string, error) {
	ret := _m.Called(ctx, req)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.String(1), ret.Error(2)
}

func (_m *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	ret := _m.Called(ctx, email, password)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.String(1), ret.Error(2)
}

func (_m *AuthService) Logout(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	ret := _m.Called(ctx, token)
	var r0 *domain.Identity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Identity)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) Profile(ctx context.Context, userID int) (*domain.User, error) {
	ret := _m.Called(ctx, userID)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) UpdateProfile(ctx context.Context, userID int, req service.ProfileUpdate) (*domain.User, error) {
	ret := _m.Called(ctx, userID, req)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	ret := _m.Called(ctx, userID, current, next)
	return ret.Error(0)
}

// NewAuthService creates a new instance of AuthService. It also registers a cleanup function to assert the mocks expectations.
func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// RestaurantService is a mock type for the service.RestaurantServiceInterface type
type RestaurantService struct {
	mock.Mock
}

func (_m *RestaurantService) Create(ctx context.Context, actor domain.Identity, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, actor, rest)
	return ret.Error(0)
}

func (_m *RestaurantService) List(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx, filter)
	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantService) ListByOwner(ctx context.Context, ownerID int) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx, ownerID)
	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantService) Update(ctx context.Context, actorID, id int, patch service.RestaurantUpdate) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, actorID, id, patch)
	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantService) Delete(ctx context.Context, actorID, id int) error {
	ret := _m.Called(ctx, actorID, id)
	return ret.Error(0)
}

// NewRestaurantService creates a new instance of RestaurantService. It also registers a cleanup function to assert the mocks expectations.
func NewRestaurantService(t testingT) *RestaurantService {
	m := &RestaurantService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MenuService is a mock type for the service.MenuServiceInterface type
type MenuService struct {
	mock.Mock
}

func (_m *MenuService) Create(ctx context.Context, actorID int, item *domain.MenuItem) error {
	ret := _m.Called(ctx, actorID, item)
	return ret.Error(0)
}

func (_m *MenuService) ListAvailable(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuService) Update(ctx context.Context, actorID, id int, patch service.MenuItemUpdate) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, actorID, id, patch)
	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuService) Delete(ctx context.Context, actorID, id int) error {
	ret := _m.Called(ctx, actorID, id)
	return ret.Error(0)
}

// NewMenuService creates a new instance of MenuService. It also registers a cleanup function to assert the mocks expectations.
func NewMenuService(t testingT) *MenuService {
	m := &MenuService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OrderService is a mock type for the service.OrderServiceInterface type
type OrderService struct {
	mock.Mock
}

func (_m *OrderService) PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*domain.Order, bool, error) {
	ret := _m.Called(ctx, req)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *OrderService) Get(ctx context.Context, actorID, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, actorID, orderID)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderService) ListForCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	ret := _m.Called(ctx, customerID)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderService) ListForRestaurant(ctx context.Context, actorID, restaurantID int) ([]domain.Order, error) {
	ret := _m.Called(ctx, actorID, restaurantID)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderService) AdvanceStatus(ctx context.Context, orderID, actorID int, status string) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID, actorID, status)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderService) RateOrder(ctx context.Context, orderID, customerID, rating int, review string) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID, customerID, rating, review)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderService) ReceiptQRCode(ctx context.Context, actorID, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, actorID, orderID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// NewOrderService creates a new instance of OrderService. It also registers a cleanup function to assert the mocks expectations.
func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.AuthServiceInterface       = (*AuthService)(nil)
	_ service.RestaurantServiceInterface = (*RestaurantService)(nil)
	_ service.MenuServiceInterface       = (*MenuService)(nil)
	_ service.OrderServiceInterface      = (*OrderService)(nil)
)

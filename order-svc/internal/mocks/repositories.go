package mocks

import (
	"context"
	"time"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// UserRepository is a mock type for the service.UserRepository type
type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	ret := _m.Called(ctx, user)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.User) error); ok {
		return rf(ctx, user)
	}
	return ret.Error(0)
}

func (_m *UserRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ret := _m.Called(ctx, email)
	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

func (_m *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	ret := _m.Called(ctx, id, passwordHash)
	return ret.Error(0)
}

// NewUserRepository creates a new instance of UserRepository. It also registers a cleanup function to assert the mocks expectations.
func NewUserRepository(t testingT) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// RestaurantRepository is a mock type for the service.RestaurantRepository type
type RestaurantRepository struct {
	mock.Mock
}

func (_m *RestaurantRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, rest)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Restaurant) error); ok {
		return rf(ctx, rest)
	}
	return ret.Error(0)
}

func (_m *RestaurantRepository) ListRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx, filter)
	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantRepository) ListRestaurantsByOwner(ctx context.Context, ownerID int) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx, ownerID)
	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, rest)
	return ret.Error(0)
}

func (_m *RestaurantRepository) DeleteRestaurant(ctx context.Context, id int) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewRestaurantRepository creates a new instance of RestaurantRepository. It also registers a cleanup function to assert the mocks expectations.
func NewRestaurantRepository(t testingT) *RestaurantRepository {
	m := &RestaurantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MenuRepository is a mock type for the service.MenuRepository type
type MenuRepository struct {
	mock.Mock
}

func (_m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	ret := _m.Called(ctx, item)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.MenuItem) error); ok {
		return rf(ctx, item)
	}
	return ret.Error(0)
}

func (_m *MenuRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) ListAvailableMenuItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

func (_m *MenuRepository) SetMenuItemAvailability(ctx context.Context, id int, available bool) error {
	ret := _m.Called(ctx, id, available)
	return ret.Error(0)
}

// NewMenuRepository creates a new instance of MenuRepository. It also registers a cleanup function to assert the mocks expectations.
func NewMenuRepository(t testingT) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OrderRepository is a mock type for the service.OrderRepository type
type OrderRepository struct {
	mock.Mock
}

// Materialize accepts either a fixed (*domain.Order, error) pair or a
// func(restaurantID int, ids []int, price service.PricingFunc) (*domain.Order, error)
// as its first return value. The func form lets tests drive the pricing
// callback against a catalog fixture.
func (_m *OrderRepository) Materialize(ctx context.Context, restaurantID int, menuItemIDs []int, price service.PricingFunc) (*domain.Order, error) {
	ret := _m.Called(ctx, restaurantID, menuItemIDs, price)
	if rf, ok := ret.Get(0).(func(int, []int, service.PricingFunc) (*domain.Order, error)); ok {
		return rf(restaurantID, menuItemIDs, price)
	}
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListCustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	ret := _m.Called(ctx, customerID)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListRestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) UpdateStatus(ctx context.Context, id int, from, to domain.Status, deliveredAt *time.Time) (bool, error) {
	ret := _m.Called(ctx, id, from, to, deliveredAt)
	return ret.Bool(0), ret.Error(1)
}

func (_m *OrderRepository) UpdateRating(ctx context.Context, id int, rating int, review string) error {
	ret := _m.Called(ctx, id, rating, review)
	return ret.Error(0)
}

// NewOrderRepository creates a new instance of OrderRepository. It also registers a cleanup function to assert the mocks expectations.
func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.UserRepository       = (*UserRepository)(nil)
	_ service.RestaurantRepository = (*RestaurantRepository)(nil)
	_ service.MenuRepository       = (*MenuRepository)(nil)
	_ service.OrderRepository      = (*OrderRepository)(nil)
)

package mocks

import (
	"context"

	"food-delivery/analytics-svc/internal/domain"
	"food-delivery/analytics-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

// AnalyticsInterface is a mock type for the AnalyticsInterface type
type AnalyticsInterface struct {
	mock.Mock
}

func (_m *AnalyticsInterface) TopToday(ctx context.Context, limit int) (*domain.TopDishes, error) {
	ret := _m.Called(ctx, limit)
	var r0 *domain.TopDishes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.TopDishes)
	}
	return r0, ret.Error(1)
}

func (_m *AnalyticsInterface) PopularForRestaurant(ctx context.Context, restaurantID int, date string, limit int) (*domain.RestaurantPopularity, error) {
	ret := _m.Called(ctx, restaurantID, date, limit)
	var r0 *domain.RestaurantPopularity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.RestaurantPopularity)
	}
	return r0, ret.Error(1)
}

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// NewAnalyticsInterface creates a new instance of AnalyticsInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAnalyticsInterface(t testingT) *AnalyticsInterface {
	m := &AnalyticsInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.AnalyticsInterface = (*AnalyticsInterface)(nil)

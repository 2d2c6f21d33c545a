package service

import (
	"context"

	"food-delivery/analytics-svc/internal/domain"
)

type AnalyticsInterface interface {
	TopToday(ctx context.Context, limit int) (*domain.TopDishes, error)
	PopularForRestaurant(ctx context.Context, restaurantID int, date string, limit int) (*domain.RestaurantPopularity, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)

package service

import (
	"context"

	"food-delivery/agg-svc/internal/domain"
	"food-delivery/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	MarkProcessed(ctx context.Context, orderID int) (bool, error)
	ReleaseProcessed(ctx context.Context, orderID int) error
	IncrementOrderCounts(ctx context.Context, restaurantID int, items []domain.OrderItem) error
	IncrementDailyPopularity(ctx context.Context, day string, restaurantID int, items []domain.OrderItem) error
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

var (
	_ StoreInterface = (*storage.Store)(nil)
	_ MessageReader  = (*kafka.Reader)(nil)
)

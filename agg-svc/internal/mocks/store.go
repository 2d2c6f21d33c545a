package mocks

import (
	"context"

	"food-delivery/agg-svc/internal/domain"
	"food-delivery/agg-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// StoreInterface is a mock type for the StoreInterface type
type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) MarkProcessed(ctx context.Context, orderID int) (bool, error) {
	ret := _m.Called(ctx, orderID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) ReleaseProcessed(ctx context.Context, orderID int) error {
	ret := _m.Called(ctx, orderID)
	return ret.Error(0)
}

func (_m *StoreInterface) IncrementOrderCounts(ctx context.Context, restaurantID int, items []domain.OrderItem) error {
	ret := _m.Called(ctx, restaurantID, items)
	return ret.Error(0)
}

func (_m *StoreInterface) IncrementDailyPopularity(ctx context.Context, day string, restaurantID int, items []domain.OrderItem) error {
	ret := _m.Called(ctx, day, restaurantID, items)
	return ret.Error(0)
}

// MessageReader is a mock type for the MessageReader type
type MessageReader struct {
	mock.Mock
}

func (_m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(kafka.Message), ret.Error(1)
}

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// NewStoreInterface creates a new instance of StoreInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoreInterface(t testingT) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewMessageReader creates a new instance of MessageReader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.StoreInterface = (*StoreInterface)(nil)
	_ service.MessageReader  = (*MessageReader)(nil)
)

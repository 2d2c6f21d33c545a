package mocks

import (
	"context"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

// SessionStore is a mock type for the service.SessionStore type
type SessionStore struct {
	mock.Mock
}

func (_m *SessionStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	ret := _m.Called(ctx, identity)
	return ret.String(0), ret.Error(1)
}

func (_m *SessionStore) Lookup(ctx context.Context, token string) (*domain.Identity, error) {
	ret := _m.Called(ctx, token)
	var r0 *domain.Identity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Identity)
	}
	return r0, ret.Error(1)
}

func (_m *SessionStore) Revoke(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// NewSessionStore creates a new instance of SessionStore. It also registers a cleanup function to assert the mocks expectations.
func NewSessionStore(t testingT) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// IdempotencyStore is a mock type for the service.IdempotencyStore type
type IdempotencyStore struct {
	mock.Mock
}

func (_m *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, int, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Int(1), ret.Error(2)
}

func (_m *IdempotencyStore) Complete(ctx context.Context, key string, orderID int) error {
	ret := _m.Called(ctx, key, orderID)
	return ret.Error(0)
}

func (_m *IdempotencyStore) Release(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

// NewIdempotencyStore creates a new instance of IdempotencyStore. It also registers a cleanup function to assert the mocks expectations.
func NewIdempotencyStore(t testingT) *IdempotencyStore {
	m := &IdempotencyStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OrderPublisher is a mock type for the service.OrderPublisher type
type OrderPublisher struct {
	mock.Mock
}

func (_m *OrderPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// NewOrderPublisher creates a new instance of OrderPublisher. It also registers a cleanup function to assert the mocks expectations.
func NewOrderPublisher(t testingT) *OrderPublisher {
	m := &OrderPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// QRGenerator is a mock type for the service.QRGenerator type
type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := _m.Called(orderID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// NewQRGenerator creates a new instance of QRGenerator. It also registers a cleanup function to assert the mocks expectations.
func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.SessionStore     = (*SessionStore)(nil)
	_ service.IdempotencyStore = (*IdempotencyStore)(nil)
	_ service.OrderPublisher   = (*OrderPublisher)(nil)
	_ service.QRGenerator      = (*QRGenerator)(nil)
)

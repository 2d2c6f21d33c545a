package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"food-delivery/order-svc/internal/domain"
)

type OrderLine struct {
	MenuItemID          int    `json:"menu_item_id" validate:"required"`
	Quantity            int    `json:"quantity" validate:"min=1"`
	SpecialInstructions string `json:"special_instructions"`
}

// PlaceOrderRequest is a cart submission. Client prices are not part of it.
type PlaceOrderRequest struct {
	CustomerID          int                  `json:"-"`
	IdempotencyKey      string               `json:"-"`
	RestaurantID        int                  `json:"restaurant_id" validate:"required"`
	Items               []OrderLine          `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress     domain.Address       `json:"delivery_address"`
	PaymentMethod       domain.PaymentMethod `json:"payment_method" validate:"oneof=cash card digital_wallet"`
	SpecialInstructions string               `json:"special_instructions"`
}

type OrderService struct {
	repo        OrderRepository
	restaurants RestaurantRepository
	idempotency IdempotencyStore
	publisher   OrderPublisher
	qrEncoder   QRGenerator
	policy      domain.TransitionPolicy
	now         func() time.Time
}

type OrderServiceOption func(*OrderService)

func WithTransitionPolicy(policy domain.TransitionPolicy) OrderServiceOption {
	return func(s *OrderService) { s.policy = policy }
}

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

func WithIdempotencyStore(store IdempotencyStore) OrderServiceOption {
	return func(s *OrderService) { s.idempotency = store }
}

func WithPublisher(publisher OrderPublisher) OrderServiceOption {
	return func(s *OrderService) { s.publisher = publisher }
}

func WithQRGenerator(qr QRGenerator) OrderServiceOption {
	return func(s *OrderService) { s.qrEncoder = qr }
}

func NewOrderService(repo OrderRepository, restaurants RestaurantRepository, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		repo:        repo,
		restaurants: restaurants,
		policy:      domain.PolicyStrict,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder re-prices the submitted lines against the catalog and persists
// the order. The bool result is true when an earlier order with the same
// idempotency key was returned instead of creating a new one.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, bool, error) {
	req.DeliveryAddress = trimAddress(req.DeliveryAddress)
	if err := validateStruct(req); err != nil {
		return nil, false, err
	}

	key := s.idempotencyKey(req)
	if key != "" {
		reserved, existingID, err := s.idempotency.Reserve(ctx, key)
		if err != nil {
			return nil, false, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !reserved {
			if existingID == 0 {
				return nil, false, fmt.Errorf("%w: an order with this idempotency key is still being placed", ErrConflict)
			}
			order, err := s.repo.GetOrder(ctx, existingID)
			if err != nil {
				return nil, false, err
			}
			return order, true, nil
		}
	}

	order, err := s.materialize(ctx, req)
	if err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				log.Printf("[order-svc] failed to release idempotency key %s: %v", key, relErr)
			}
		}
		return nil, false, err
	}

	if key != "" {
		if err := s.idempotency.Complete(ctx, key, order.ID); err != nil {
			log.Printf("[order-svc] failed to record idempotency key for order %d: %v", order.ID, err)
		}
	}

	s.publish(ctx, domain.EventOrderPlaced, order)
	log.Printf("[order-svc] order %d placed by customer %d at restaurant %d, total %s",
		order.ID, order.CustomerID, order.RestaurantID, order.Total.StringFixed(domain.CurrencyPlaces))
	return order, false, nil
}

func (s *OrderService) materialize(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	ids := make([]int, 0, len(req.Items))
	seen := make(map[int]bool, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	return s.repo.Materialize(ctx, req.RestaurantID, ids, func(rest *domain.Restaurant, catalog map[int]domain.MenuItem) (*domain.Order, error) {
		return s.priceOrder(req, rest, catalog)
	})
}

// priceOrder is the pure part of materialization: every line takes its price
// from the catalog snapshot.
func (s *OrderService) priceOrder(req PlaceOrderRequest, rest *domain.Restaurant, catalog map[int]domain.MenuItem) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		menuItem, ok := catalog[line.MenuItemID]
		if !ok || !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: menu item %d", ErrItemUnavailable, line.MenuItemID)
		}
		if menuItem.RestaurantID != req.RestaurantID {
			return nil, fmt.Errorf("%w: menu item %d is not offered by restaurant %d",
				ErrItemUnavailable, line.MenuItemID, req.RestaurantID)
		}
		items = append(items, domain.OrderItem{
			MenuItemID:          menuItem.ID,
			Name:                menuItem.Name,
			Quantity:            line.Quantity,
			Price:               menuItem.Price,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	if rest == nil || !rest.IsActive {
		return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, req.RestaurantID)
	}

	now := s.now()
	totals := domain.ComputeTotals(domain.Subtotal(items), rest.DeliveryFee)
	return &domain.Order{
		CustomerID:            req.CustomerID,
		RestaurantID:          rest.ID,
		RestaurantName:        rest.Name,
		Items:                 items,
		Subtotal:              totals.Subtotal,
		DeliveryFee:           totals.DeliveryFee,
		Tax:                   totals.Tax,
		Total:                 totals.Total,
		DeliveryAddress:       req.DeliveryAddress,
		PaymentMethod:         req.PaymentMethod,
		PaymentStatus:         domain.PaymentPending,
		OrderStatus:           domain.StatusPending,
		EstimatedDeliveryTime: now.Add(time.Duration(rest.EstimatedDeliveryTime) * time.Minute),
		SpecialInstructions:   req.SpecialInstructions,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

func (s *OrderService) idempotencyKey(req PlaceOrderRequest) string {
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return ""
	}
	return "idempotency:order:" + strconv.Itoa(req.CustomerID) + ":" + key
}

// Get returns an order to its customer or to the owner of its restaurant.
func (s *OrderService) Get(ctx context.Context, actorID, orderID int) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID == actorID {
		return order, nil
	}
	if err := s.checkRestaurantOwner(ctx, actorID, order.RestaurantID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return s.repo.ListCustomerOrders(ctx, customerID)
}

func (s *OrderService) ListForRestaurant(ctx context.Context, actorID, restaurantID int) ([]domain.Order, error) {
	if err := s.checkRestaurantOwner(ctx, actorID, restaurantID); err != nil {
		return nil, err
	}
	return s.repo.ListRestaurantOrders(ctx, restaurantID)
}

// AdvanceStatus moves an order to status on behalf of the restaurant owner.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID, actorID int, status string) (*domain.Order, error) {
	to, ok := domain.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRestaurantOwner(ctx, actorID, order.RestaurantID); err != nil {
		return nil, err
	}

	from := order.OrderStatus
	if !s.policy.Allows(from, to) {
		return nil, fmt.Errorf("%w: cannot move order %d from %s to %s", ErrInvalidState, orderID, from, to)
	}

	now := s.now()
	var deliveredAt *time.Time
	if to == domain.StatusDelivered {
		deliveredAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, from, to, deliveredAt)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %d changed status concurrently", ErrConflict, orderID)
	}

	order.OrderStatus = to
	order.UpdatedAt = now
	if deliveredAt != nil {
		order.ActualDeliveryTime = deliveredAt
	}

	s.publish(ctx, domain.EventOrderStatusChanged, order)
	log.Printf("[order-svc] order %d moved from %s to %s by user %d", orderID, from, to, actorID)
	return order, nil
}

// RateOrder records the customer's rating of a delivered order. Rating again
// overwrites the previous rating and review.
func (s *OrderService) RateOrder(ctx context.Context, orderID, customerID, rating int, review string) (*domain.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", ErrNotAuthorized, orderID)
	}
	if order.OrderStatus != domain.StatusDelivered {
		return nil, fmt.Errorf("%w: can only rate delivered orders", ErrInvalidState)
	}

	if err := s.repo.UpdateRating(ctx, orderID, rating, review); err != nil {
		return nil, err
	}

	order.Rating = &rating
	order.Review = review
	order.UpdatedAt = s.now()

	s.publish(ctx, domain.EventOrderRated, order)
	return order, nil
}

// ReceiptQRCode renders a PNG QR code that links the receipt to its rating
// page. Only those who may read the order get its code.
func (s *OrderService) ReceiptQRCode(ctx context.Context, actorID, orderID int) ([]byte, error) {
	if s.qrEncoder == nil {
		return nil, errors.New("qr code generation is not configured")
	}
	if _, err := s.Get(ctx, actorID, orderID); err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(orderID)
}

func trimAddress(a domain.Address) domain.Address {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	return a
}

func (s *OrderService) checkRestaurantOwner(ctx context.Context, actorID, restaurantID int) error {
	rest, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}
	if rest.OwnerID != actorID {
		return fmt.Errorf("%w: restaurant %d belongs to another owner", ErrNotAuthorized, restaurantID)
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, domain.NewOrderEvent(eventType, order, s.now())); err != nil {
		log.Printf("[order-svc] failed to publish %s for order %d: %v", eventType, order.ID, err)
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)

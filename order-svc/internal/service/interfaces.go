package service

import (
	"context"
	"time"

	"food-delivery/order-svc/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	ListRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error)
	ListRestaurantsByOwner(ctx context.Context, ownerID int) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	DeleteRestaurant(ctx context.Context, id int) error
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	ListAvailableMenuItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	SetMenuItemAvailability(ctx context.Context, id int, available bool) error
}

// PricingFunc builds an order from a catalog snapshot. restaurant is nil when
// the restaurant does not exist; catalog holds only the menu items that exist.
type PricingFunc func(restaurant *domain.Restaurant, catalog map[int]domain.MenuItem) (*domain.Order, error)

type OrderRepository interface {
	// Materialize reads the restaurant and menu items under a consistent
	// snapshot, calls price, and persists the order it returns in the same
	// transaction.
	Materialize(ctx context.Context, restaurantID int, menuItemIDs []int, price PricingFunc) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error)
	ListRestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error)
	// UpdateStatus changes the status only if it is still from. It reports
	// false when another writer got there first.
	UpdateStatus(ctx context.Context, id int, from, to domain.Status, deliveredAt *time.Time) (bool, error)
	UpdateRating(ctx context.Context, id int, rating int, review string) error
}

type SessionStore interface {
	Create(ctx context.Context, identity domain.Identity) (string, error)
	Lookup(ctx context.Context, token string) (*domain.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// IdempotencyStore remembers which order a client request key produced.
type IdempotencyStore interface {
	// Reserve claims key. When the key is already taken it returns the order
	// id recorded for it, or 0 while the first request is still in flight.
	Reserve(ctx context.Context, key string) (reserved bool, orderID int, err error)
	Complete(ctx context.Context, key string, orderID int) error
	Release(ctx context.Context, key string) error
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	Profile(ctx context.Context, userID int) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int, req ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int, current, next string) error
}

type RestaurantServiceInterface interface {
	Create(ctx context.Context, actor domain.Identity, rest *domain.Restaurant) error
	List(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error)
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Restaurant, error)
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
	Update(ctx context.Context, actorID, id int, patch RestaurantUpdate) (*domain.Restaurant, error)
	Delete(ctx context.Context, actorID, id int) error
}

type MenuServiceInterface interface {
	Create(ctx context.Context, actorID int, item *domain.MenuItem) error
	ListAvailable(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	Update(ctx context.Context, actorID, id int, patch MenuItemUpdate) (*domain.MenuItem, error)
	Delete(ctx context.Context, actorID, id int) error
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, bool, error)
	Get(ctx context.Context, actorID, orderID int) (*domain.Order, error)
	ListForCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
	ListForRestaurant(ctx context.Context, actorID, restaurantID int) ([]domain.Order, error)
	AdvanceStatus(ctx context.Context, orderID, actorID int, status string) (*domain.Order, error)
	RateOrder(ctx context.Context, orderID, customerID, rating int, review string) (*domain.Order, error)
	ReceiptQRCode(ctx context.Context, actorID, orderID int) ([]byte, error)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"food-delivery/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// RestaurantUpdate is a partial restaurant update. Nil fields keep their
// current value.
type RestaurantUpdate struct {
	Name                  *string          `json:"name"`
	Description           *string          `json:"description"`
	Cuisine               *string          `json:"cuisine"`
	Address               *domain.Address  `json:"address"`
	Phone                 *string          `json:"phone"`
	Email                 *string          `json:"email"`
	DeliveryFee           *decimal.Decimal `json:"delivery_fee"`
	MinimumOrder          *decimal.Decimal `json:"minimum_order"`
	EstimatedDeliveryTime *int             `json:"estimated_delivery_time"`
	IsOpen                *bool            `json:"is_open"`
	ImageURL              *string          `json:"image_url"`
}

func (u RestaurantUpdate) apply(rest *domain.Restaurant) {
	if u.Name != nil {
		rest.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		rest.Description = *u.Description
	}
	if u.Cuisine != nil {
		rest.Cuisine = *u.Cuisine
	}
	if u.Address != nil {
		rest.Address = *u.Address
	}
	if u.Phone != nil {
		rest.Phone = *u.Phone
	}
	if u.Email != nil {
		rest.Email = *u.Email
	}
	if u.DeliveryFee != nil {
		rest.DeliveryFee = *u.DeliveryFee
	}
	if u.MinimumOrder != nil {
		rest.MinimumOrder = *u.MinimumOrder
	}
	if u.EstimatedDeliveryTime != nil {
		rest.EstimatedDeliveryTime = *u.EstimatedDeliveryTime
	}
	if u.IsOpen != nil {
		rest.IsOpen = *u.IsOpen
	}
	if u.ImageURL != nil {
		rest.ImageURL = *u.ImageURL
	}
}

type RestaurantService struct {
	repo RestaurantRepository
	menu MenuRepository
}

func NewRestaurantService(repo RestaurantRepository, menu MenuRepository) *RestaurantService {
	return &RestaurantService{repo: repo, menu: menu}
}

func (s *RestaurantService) Create(ctx context.Context, actor domain.Identity, rest *domain.Restaurant) error {
	if actor.Role != domain.RoleRestaurantOwner {
		return fmt.Errorf("%w: only restaurant owners can create restaurants", ErrNotAuthorized)
	}
	if err := validateRestaurant(rest); err != nil {
		return err
	}
	rest.OwnerID = actor.UserID
	rest.IsActive = true
	return s.repo.CreateRestaurant(ctx, rest)
}

func (s *RestaurantService) List(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants(ctx, filter)
}

func (s *RestaurantService) ListByOwner(ctx context.Context, ownerID int) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurantsByOwner(ctx, ownerID)
}

// Get returns the restaurant together with its currently available menu.
// Deleted restaurants are not found.
func (s *RestaurantService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	rest, err := activeRestaurant(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	items, err := s.menu.ListAvailableMenuItems(ctx, id)
	if err != nil {
		return nil, err
	}
	rest.MenuItems = items
	return rest, nil
}

// Update applies patch on top of the stored restaurant.
func (s *RestaurantService) Update(ctx context.Context, actorID, id int, patch RestaurantUpdate) (*domain.Restaurant, error) {
	rest, err := s.ownedRestaurant(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	patch.apply(rest)
	if err := validateRestaurant(rest); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *RestaurantService) Delete(ctx context.Context, actorID, id int) error {
	if _, err := s.ownedRestaurant(ctx, actorID, id); err != nil {
		return err
	}
	return s.repo.DeleteRestaurant(ctx, id)
}

func (s *RestaurantService) ownedRestaurant(ctx context.Context, actorID, id int) (*domain.Restaurant, error) {
	rest, err := activeRestaurant(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if rest.OwnerID != actorID {
		return nil, fmt.Errorf("%w: restaurant %d belongs to another owner", ErrNotAuthorized, id)
	}
	return rest, nil
}

// activeRestaurant loads a restaurant that has not been deleted.
func activeRestaurant(ctx context.Context, repo RestaurantRepository, id int) (*domain.Restaurant, error) {
	rest, err := repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rest.IsActive {
		return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, id)
	}
	return rest, nil
}

func validateRestaurant(rest *domain.Restaurant) error {
	if err := validateStruct(rest); err != nil {
		return err
	}
	if rest.DeliveryFee.IsNegative() || rest.MinimumOrder.IsNegative() {
		return fmt.Errorf("%w: delivery fee and minimum order must not be negative", ErrInvalidInput)
	}
	return nil
}

var _ RestaurantServiceInterface = (*RestaurantService)(nil)

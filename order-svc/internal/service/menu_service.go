package service

import (
	"context"
	"fmt"
	"strings"

	"food-delivery/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// MenuItemUpdate is a partial menu item update. Nil fields keep their current
// value. The owning restaurant cannot be changed.
type MenuItemUpdate struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *domain.Category `json:"category"`
	ImageURL        *string          `json:"image_url"`
	IsVegetarian    *bool            `json:"is_vegetarian"`
	IsVegan         *bool            `json:"is_vegan"`
	IsSpicy         *bool            `json:"is_spicy"`
	Allergens       *[]string        `json:"allergens"`
	PreparationTime *int             `json:"preparation_time"`
	IsAvailable     *bool            `json:"is_available"`
}

func (u MenuItemUpdate) apply(item *domain.MenuItem) {
	if u.Name != nil {
		item.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		item.Description = strings.TrimSpace(*u.Description)
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.ImageURL != nil {
		item.ImageURL = *u.ImageURL
	}
	if u.IsVegetarian != nil {
		item.IsVegetarian = *u.IsVegetarian
	}
	if u.IsVegan != nil {
		item.IsVegan = *u.IsVegan
	}
	if u.IsSpicy != nil {
		item.IsSpicy = *u.IsSpicy
	}
	if u.Allergens != nil {
		item.Allergens = *u.Allergens
	}
	if u.PreparationTime != nil {
		item.PreparationTime = *u.PreparationTime
	}
	if u.IsAvailable != nil {
		item.IsAvailable = *u.IsAvailable
	}
}

type MenuService struct {
	repo        MenuRepository
	restaurants RestaurantRepository
}

func NewMenuService(repo MenuRepository, restaurants RestaurantRepository) *MenuService {
	return &MenuService{repo: repo, restaurants: restaurants}
}

func (s *MenuService) Create(ctx context.Context, actorID int, item *domain.MenuItem) error {
	if err := s.checkOwner(ctx, actorID, item.RestaurantID); err != nil {
		return err
	}
	if item.PreparationTime == 0 {
		item.PreparationTime = domain.DefaultPreparationTime
	}
	if err := validateMenuItem(item); err != nil {
		return err
	}
	item.IsAvailable = true
	return s.repo.CreateMenuItem(ctx, item)
}

// ListAvailable returns the orderable items of a restaurant that has not been deleted.
func (s *MenuService) ListAvailable(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	if _, err := activeRestaurant(ctx, s.restaurants, restaurantID); err != nil {
		return nil, err
	}
	return s.repo.ListAvailableMenuItems(ctx, restaurantID)
}

// Update applies patch on top of the stored item.
func (s *MenuService) Update(ctx context.Context, actorID, id int, patch MenuItemUpdate) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, actorID, item.RestaurantID); err != nil {
		return nil, err
	}
	patch.apply(item)
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete withdraws an item from the menu. Orders keep referencing it, so the
// row itself stays.
func (s *MenuService) Delete(ctx context.Context, actorID, id int) error {
	current, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, actorID, current.RestaurantID); err != nil {
		return err
	}
	return s.repo.SetMenuItemAvailability(ctx, id, false)
}

func (s *MenuService) checkOwner(ctx context.Context, actorID, restaurantID int) error {
	rest, err := activeRestaurant(ctx, s.restaurants, restaurantID)
	if err != nil {
		return err
	}
	if rest.OwnerID != actorID {
		return fmt.Errorf("%w: restaurant %d belongs to another owner", ErrNotAuthorized, restaurantID)
	}
	return nil
}

func validateMenuItem(item *domain.MenuItem) error {
	if err := validateStruct(item); err != nil {
		return err
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

var _ MenuServiceInterface = (*MenuService)(nil)

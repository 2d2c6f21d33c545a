package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/lib/pq"
)

const menuItemColumns = `id, restaurant_id, name, description, price, category, image_url,
	is_vegetarian, is_vegan, is_spicy, allergens, preparation_time, is_available, rating, total_orders,
	created_at, updated_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }) (*domain.MenuItem, error) {
	var m domain.MenuItem
	err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &m.Category, &m.ImageURL,
		&m.IsVegetarian, &m.IsVegan, &m.IsSpicy, pq.Array(&m.Allergens), &m.PreparationTime, &m.IsAvailable,
		&m.Rating, &m.TotalOrders, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if m.Allergens == nil {
		m.Allergens = []string{}
	}
	return &m, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	allergens := item.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, price, category, image_url,
			is_vegetarian, is_vegan, is_spicy, allergens, preparation_time, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Category, item.ImageURL,
		item.IsVegetarian, item.IsVegan, item.IsSpicy, pq.Array(allergens), item.PreparationTime, item.IsAvailable,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: menu item %d", service.ErrNotFound, id)
	}
	return item, err
}

func (r *PostgresRepository) ListAvailableMenuItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE restaurant_id = $1 AND is_available = TRUE
		ORDER BY category, name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	allergens := item.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items SET name = $1, description = $2, price = $3, category = $4, image_url = $5,
			is_vegetarian = $6, is_vegan = $7, is_spicy = $8, allergens = $9, preparation_time = $10,
			is_available = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`,
		item.Name, item.Description, item.Price, item.Category, item.ImageURL,
		item.IsVegetarian, item.IsVegan, item.IsSpicy, pq.Array(allergens), item.PreparationTime,
		item.IsAvailable, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: menu item %d", service.ErrNotFound, item.ID)
	}
	return err
}

func (r *PostgresRepository) SetMenuItemAvailability(ctx context.Context, id int, available bool) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE menu_items SET is_available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "menu item", id)
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"
)

const restaurantColumns = `id, owner_id, name, description, cuisine, address, phone, email,
	delivery_fee, minimum_order, estimated_delivery_time, is_open, is_active, rating, image_url,
	created_at, updated_at`

func scanRestaurant(row interface{ Scan(...interface{}) error }) (*domain.Restaurant, error) {
	var r domain.Restaurant
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.Cuisine, &r.Address, &r.Phone, &r.Email,
		&r.DeliveryFee, &r.MinimumOrder, &r.EstimatedDeliveryTime, &r.IsOpen, &r.IsActive, &r.Rating, &r.ImageURL,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO restaurants (owner_id, name, description, cuisine, address, phone, email,
			delivery_fee, minimum_order, estimated_delivery_time, is_open, is_active, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		rest.OwnerID, rest.Name, rest.Description, rest.Cuisine, rest.Address, rest.Phone, rest.Email,
		rest.DeliveryFee, rest.MinimumOrder, rest.EstimatedDeliveryTime, rest.IsOpen, rest.IsActive, rest.ImageURL,
	).Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
}

// ListRestaurants returns active restaurants matching filter, best rated first.
func (r *PostgresRepository) ListRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	where := []string{"is_active = TRUE"}
	var args []interface{}

	if filter.Cuisine != "" {
		args = append(args, "%"+filter.Cuisine+"%")
		where = append(where, fmt.Sprintf("cuisine ILIKE $%d", len(args)))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		where = append(where, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if filter.IsOpen != nil {
		args = append(args, *filter.IsOpen)
		where = append(where, fmt.Sprintf("is_open = $%d", len(args)))
	}

	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY rating DESC, name ASC`
	return r.queryRestaurants(ctx, query, args...)
}

func (r *PostgresRepository) ListRestaurantsByOwner(ctx context.Context, ownerID int) ([]domain.Restaurant, error) {
	return r.queryRestaurants(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE owner_id = $1 AND is_active = TRUE ORDER BY created_at DESC`,
		ownerID)
}

func (r *PostgresRepository) queryRestaurants(ctx context.Context, query string, args ...interface{}) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	return getRestaurant(ctx, r.DB, id, "")
}

func getRestaurant(ctx context.Context, q querier, id int, lock string) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(q.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: restaurant %d", service.ErrNotFound, id)
	}
	return rest, err
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE restaurants SET name = $1, description = $2, cuisine = $3, address = $4, phone = $5,
			email = $6, delivery_fee = $7, minimum_order = $8, estimated_delivery_time = $9,
			is_open = $10, image_url = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`,
		rest.Name, rest.Description, rest.Cuisine, rest.Address, rest.Phone,
		rest.Email, rest.DeliveryFee, rest.MinimumOrder, rest.EstimatedDeliveryTime,
		rest.IsOpen, rest.ImageURL, rest.ID,
	).Scan(&rest.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: restaurant %d", service.ErrNotFound, rest.ID)
	}
	return err
}

// DeleteRestaurant deactivates the restaurant. Its orders keep referencing it.
func (r *PostgresRepository) DeleteRestaurant(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET is_active = FALSE, is_open = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "restaurant", id)
}

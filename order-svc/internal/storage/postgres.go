package storage

import (
	"context"
	"database/sql"
	"fmt"

	"food-delivery/order-svc/internal/service"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'customer',
		address JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id SERIAL PRIMARY KEY,
		owner_id INT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cuisine TEXT NOT NULL DEFAULT '',
		address JSONB,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
		minimum_order NUMERIC(10,2) NOT NULL DEFAULT 0,
		estimated_delivery_time INT NOT NULL DEFAULT 30,
		is_open BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		restaurant_id INT NOT NULL REFERENCES restaurants(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		is_vegetarian BOOLEAN NOT NULL DEFAULT FALSE,
		is_vegan BOOLEAN NOT NULL DEFAULT FALSE,
		is_spicy BOOLEAN NOT NULL DEFAULT FALSE,
		allergens TEXT[] NOT NULL DEFAULT '{}',
		preparation_time INT NOT NULL DEFAULT 15,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		total_orders INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		customer_id INT NOT NULL REFERENCES users(id),
		restaurant_id INT NOT NULL REFERENCES restaurants(id),
		subtotal NUMERIC(10,2) NOT NULL,
		delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
		tax NUMERIC(10,2) NOT NULL DEFAULT 0,
		total NUMERIC(10,2) NOT NULL,
		delivery_address JSONB NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		order_status TEXT NOT NULL DEFAULT 'pending',
		estimated_delivery_time TIMESTAMPTZ,
		actual_delivery_time TIMESTAMPTZ,
		special_instructions TEXT NOT NULL DEFAULT '',
		rating INT CHECK (rating BETWEEN 1 AND 5),
		review TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(id),
		menu_item_id INT NOT NULL REFERENCES menu_items(id),
		quantity INT NOT NULL CHECK (quantity >= 1),
		price NUMERIC(10,2) NOT NULL,
		special_instructions TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders (customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_restaurant ON orders (restaurant_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items (restaurant_id)`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%.40s`: %w", stmt, err)
		}
	}
	return nil
}

var (
	_ service.UserRepository       = (*PostgresRepository)(nil)
	_ service.RestaurantRepository = (*PostgresRepository)(nil)
	_ service.MenuRepository       = (*PostgresRepository)(nil)
	_ service.OrderRepository      = (*PostgresRepository)(nil)
)

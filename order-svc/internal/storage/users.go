package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"
)

const userColumns = `id, name, email, password_hash, phone, role, address, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.Address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, phone, role, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.Role, user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email already registered", service.ErrConflict)
	}
	return err
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", service.ErrNotFound, id)
	}
	return user, err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", service.ErrNotFound, email)
	}
	return user, err
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE users SET name = $1, phone = $2, address = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		user.Name, user.Phone, user.Address, user.ID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: user %d", service.ErrNotFound, user.ID)
	}
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "user", id)
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/lib/pq"
)

const orderSelect = `
	SELECT o.id, o.customer_id, COALESCE(u.name, ''), COALESCE(u.phone, ''),
		o.restaurant_id, COALESCE(r.name, ''),
		o.subtotal, o.delivery_fee, o.tax, o.total, o.delivery_address,
		o.payment_method, o.payment_status, o.order_status,
		o.estimated_delivery_time, o.actual_delivery_time, o.special_instructions,
		o.rating, o.review, o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN users u ON u.id = o.customer_id
	LEFT JOIN restaurants r ON r.id = o.restaurant_id`

func scanOrder(row interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	var (
		o         domain.Order
		eta       sql.NullTime
		delivered sql.NullTime
		rating    sql.NullInt64
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
		&o.RestaurantID, &o.RestaurantName,
		&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Total, &o.DeliveryAddress,
		&o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&eta, &delivered, &o.SpecialInstructions,
		&rating, &o.Review, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if eta.Valid {
		o.EstimatedDeliveryTime = eta.Time
	}
	if delivered.Valid {
		t := delivered.Time
		o.ActualDeliveryTime = &t
	}
	if rating.Valid {
		v := int(rating.Int64)
		o.Rating = &v
	}
	o.Items = []domain.OrderItem{}
	return &o, nil
}

// Materialize runs the whole order placement in one transaction. The
// restaurant row and the referenced menu items are read FOR SHARE so a
// concurrent price edit or delete waits until the order is committed.
func (r *PostgresRepository) Materialize(ctx context.Context, restaurantID int, menuItemIDs []int, price service.PricingFunc) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rest, err := getRestaurant(ctx, tx, restaurantID, " FOR SHARE")
	if errors.Is(err, service.ErrNotFound) {
		rest = nil
	} else if err != nil {
		return nil, err
	}

	catalog, err := lockMenuItems(ctx, tx, menuItemIDs)
	if err != nil {
		return nil, err
	}

	order, err := price(rest, catalog)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, subtotal, delivery_fee, tax, total,
			delivery_address, payment_method, payment_status, order_status,
			estimated_delivery_time, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		order.CustomerID, order.RestaurantID, order.Subtotal, order.DeliveryFee, order.Tax, order.Total,
		order.DeliveryAddress, order.PaymentMethod, order.PaymentStatus, order.OrderStatus,
		order.EstimatedDeliveryTime, order.SpecialInstructions,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price, special_instructions)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			order.ID, item.MenuItemID, item.Quantity, item.Price, item.SpecialInstructions,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

func lockMenuItems(ctx context.Context, q querier, ids []int) (map[int]domain.MenuItem, error) {
	catalog := make(map[int]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return catalog, nil
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1) FOR SHARE`, pq.Array(toInt64s(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		catalog[item.ID] = *item
	}
	return catalog, rows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d", service.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) ListCustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	return r.listOrders(ctx, orderSelect+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC, o.id DESC`, customerID)
}

func (r *PostgresRepository) ListRestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	return r.listOrders(ctx, orderSelect+` WHERE o.restaurant_id = $1 ORDER BY o.created_at DESC, o.id DESC`, restaurantID)
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the lines of every order in one query.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[int]int, len(orders))
	ids := make([]int64, 0, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		ids = append(ids, int64(o.ID))
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, COALESCE(m.name, ''), oi.quantity, oi.price, oi.special_instructions
		FROM order_items oi
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item    domain.OrderItem
			orderID int
		)
		if err := rows.Scan(&item.ID, &orderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.Price, &item.SpecialInstructions); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, from, to domain.Status, deliveredAt *time.Time) (bool, error) {
	var delivered sql.NullTime
	if deliveredAt != nil {
		delivered = sql.NullTime{Time: *deliveredAt, Valid: true}
	}

	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET order_status = $1,
			actual_delivery_time = COALESCE($2, actual_delivery_time),
			updated_at = NOW()
		WHERE id = $3 AND order_status = $4`,
		to, delivered, id, from)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepository) UpdateRating(ctx context.Context, id int, rating int, review string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET rating = $1, review = $2, updated_at = NOW() WHERE id = $3`, rating, review, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "order", id)
}

func toInt64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"food-delivery/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	dailyRetention = 7 * 24 * time.Hour
	processedTTL   = 7 * 24 * time.Hour
)

type Store struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
	}
}

func DailyKey(day string, restaurantID int) string {
	return fmt.Sprintf("analytics:daily:%s:%d", day, restaurantID)
}

func processedKey(orderID int) string {
	return fmt.Sprintf("agg:processed:%d", orderID)
}

// MarkProcessed claims an order id. It reports false when the order was
// already counted, which happens when the topic redelivers a message.
func (s *Store) MarkProcessed(ctx context.Context, orderID int) (bool, error) {
	return s.rdb.SetNX(ctx, processedKey(orderID), 1, processedTTL).Result()
}

func (s *Store) ReleaseProcessed(ctx context.Context, orderID int) error {
	return s.rdb.Del(ctx, processedKey(orderID)).Err()
}

// IncrementOrderCounts adds each line's quantity to menu_items.total_orders.
func (s *Store) IncrementOrderCounts(ctx context.Context, restaurantID int, items []domain.OrderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			UPDATE menu_items
			SET total_orders = total_orders + $1
			WHERE id = $2 AND restaurant_id = $3
		`, item.Quantity, item.MenuItemID, restaurantID); err != nil {
			return fmt.Errorf("increment menu item %d: %w", item.MenuItemID, err)
		}
	}
	return tx.Commit()
}

// IncrementDailyPopularity bumps the restaurant's sorted set for the day by
// the quantity ordered of each item.
func (s *Store) IncrementDailyPopularity(ctx context.Context, day string, restaurantID int, items []domain.OrderItem) error {
	key := DailyKey(day, restaurantID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			pipe.ZIncrBy(ctx, key, float64(item.Quantity), strconv.Itoa(item.MenuItemID))
		}
		pipe.Expire(ctx, key, dailyRetention)
		return nil
	})
	return err
}

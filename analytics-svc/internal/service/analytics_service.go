package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"food-delivery/analytics-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const dailyKeyPrefix = "analytics:daily:"

type AnalyticsService struct {
	db  *sql.DB
	rdb *redis.Client
	now func() time.Time
}

func NewAnalyticsService(db *sql.DB, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{
		db:  db,
		rdb: rdb,
		now: time.Now,
	}
}

// WithClock replaces the service clock. Used by tests.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) today() string {
	return s.now().UTC().Format(domain.DateLayout)
}

// TopToday merges every restaurant's popularity set for the current day. When
// no set exists yet it counts today's order lines in Postgres instead.
func (s *AnalyticsService) TopToday(ctx context.Context, limit int) (*domain.TopDishes, error) {
	day := s.today()
	result := &domain.TopDishes{Date: day, Source: domain.SourceLive}

	keys, err := s.scanDailyKeys(ctx, day)
	if err != nil {
		log.Printf("[analytics-svc] scan daily keys: %v", err)
	}

	var all []domain.DishPopularity
	for _, key := range keys {
		restaurantID, err := strconv.Atoi(key[strings.LastIndex(key, ":")+1:])
		if err != nil {
			continue
		}
		members, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
		if err != nil {
			log.Printf("[analytics-svc] read %s: %v", key, err)
			continue
		}
		all = append(all, toPopularity(restaurantID, members)...)
	}

	if len(all) == 0 {
		dishes, err := s.topTodayFromDB(ctx, day, limit)
		if err != nil {
			return nil, err
		}
		result.Source = domain.SourceOrders
		result.Dishes = dishes
		return result, nil
	}

	rank(all)
	if len(all) > limit {
		all = all[:limit]
	}
	if err := s.attachNames(ctx, all); err != nil {
		return nil, err
	}
	result.Dishes = all
	return result, nil
}

// PopularForRestaurant ranks a restaurant's dishes for one day. Without a
// popularity set for that day it falls back to the all-time order counts.
func (s *AnalyticsService) PopularForRestaurant(ctx context.Context, restaurantID int, date string, limit int) (*domain.RestaurantPopularity, error) {
	if date == "" {
		date = s.today()
	}
	result := &domain.RestaurantPopularity{RestaurantID: restaurantID, Date: date, Source: domain.SourceLive}

	key := dailyKeyPrefix + date + ":" + strconv.Itoa(restaurantID)
	members, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("[analytics-svc] read %s: %v", key, err)
	}

	if len(members) == 0 {
		dishes, err := s.allTimeFromDB(ctx, restaurantID, limit)
		if err != nil {
			return nil, err
		}
		result.Source = domain.SourceAllTime
		result.Dishes = dishes
		return result, nil
	}

	dishes := toPopularity(restaurantID, members)
	rank(dishes)
	if err := s.attachNames(ctx, dishes); err != nil {
		return nil, err
	}
	result.Dishes = dishes
	return result, nil
}

func (s *AnalyticsService) scanDailyKeys(ctx context.Context, day string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, dailyKeyPrefix+day+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func toPopularity(restaurantID int, members []redis.Z) []domain.DishPopularity {
	out := make([]domain.DishPopularity, 0, len(members))
	for _, m := range members {
		member, ok := m.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		out = append(out, domain.DishPopularity{
			MenuItemID:   id,
			RestaurantID: restaurantID,
			Orders:       int(m.Score),
		})
	}
	return out
}

func rank(dishes []domain.DishPopularity) {
	sort.SliceStable(dishes, func(i, j int) bool {
		if dishes[i].Orders != dishes[j].Orders {
			return dishes[i].Orders > dishes[j].Orders
		}
		return dishes[i].MenuItemID < dishes[j].MenuItemID
	})
}

func (s *AnalyticsService) attachNames(ctx context.Context, dishes []domain.DishPopularity) error {
	if len(dishes) == 0 {
		return nil
	}
	ids := make([]int64, len(dishes))
	for i, d := range dishes {
		ids[i] = int64(d.MenuItemID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM menu_items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load menu item names: %w", err)
	}
	defer rows.Close()

	names := make(map[int]string, len(dishes))
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range dishes {
		dishes[i].Name = names[dishes[i].MenuItemID]
	}
	return nil
}

// topTodayFromDB sums the order lines placed during the UTC day.
func (s *AnalyticsService) topTodayFromDB(ctx context.Context, day string, limit int) ([]domain.DishPopularity, error) {
	start, err := time.Parse(domain.DateLayout, day)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", day, err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.restaurant_id, SUM(oi.quantity) AS orders
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE o.created_at >= $1 AND o.created_at < $2
		GROUP BY m.id, m.name, m.restaurant_id
		ORDER BY orders DESC, m.id ASC
		LIMIT $3
	`, start, start.AddDate(0, 0, 1), limit)
	if err != nil {
		return nil, fmt.Errorf("count today's orders: %w", err)
	}
	return scanPopularity(rows)
}

func (s *AnalyticsService) allTimeFromDB(ctx context.Context, restaurantID, limit int) ([]domain.DishPopularity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, restaurant_id, total_orders
		FROM menu_items
		WHERE restaurant_id = $1 AND total_orders > 0
		ORDER BY total_orders DESC, id ASC
		LIMIT $2
	`, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("load order counts: %w", err)
	}
	return scanPopularity(rows)
}

func scanPopularity(rows *sql.Rows) ([]domain.DishPopularity, error) {
	defer rows.Close()

	dishes := []domain.DishPopularity{}
	for rows.Next() {
		var d domain.DishPopularity
		if err := rows.Scan(&d.MenuItemID, &d.Name, &d.RestaurantID, &d.Orders); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

package domain

const DateLayout = "2006-01-02"

// Popularity sources.
const (
	SourceLive    = "live"
	SourceOrders  = "orders"
	SourceAllTime = "all_time"
)

type DishPopularity struct {
	MenuItemID   int    `json:"menu_item_id"`
	Name         string `json:"name"`
	RestaurantID int    `json:"restaurant_id"`
	Orders       int    `json:"orders"`
}

type TopDishes struct {
	Date   string           `json:"date"`
	Source string           `json:"source"`
	Dishes []DishPopularity `json:"dishes"`
}

type RestaurantPopularity struct {
	RestaurantID int              `json:"restaurant_id"`
	Date         string           `json:"date"`
	Source       string           `json:"source"`
	Dishes       []DishPopularity `json:"dishes"`
}

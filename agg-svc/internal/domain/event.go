package domain

import "time"

const EventOrderPlaced = "order_placed"

type OrderItem struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// OrderEvent is the subset of the order-svc event payload this service reads.
type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      int         `json:"order_id"`
	RestaurantID int         `json:"restaurant_id"`
	CustomerID   int         `json:"customer_id"`
	Items        []OrderItem `json:"items"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Day returns the UTC calendar day the event belongs to.
func (e OrderEvent) Day(fallback time.Time) string {
	at := e.Timestamp
	if at.IsZero() {
		at = fallback
	}
	return at.UTC().Format("2006-01-02")
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderRated         = "order_rated"
)

type EventItem struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// OrderEvent is the message published on the orders topic.
type OrderEvent struct {
	Type         string          `json:"type"`
	OrderID      int             `json:"order_id"`
	RestaurantID int             `json:"restaurant_id"`
	CustomerID   int             `json:"customer_id"`
	Status       Status          `json:"status,omitempty"`
	Items        []EventItem     `json:"items,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Rating       int             `json:"rating,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

func NewOrderEvent(eventType string, order *Order, at time.Time) OrderEvent {
	ev := OrderEvent{
		Type:         eventType,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		CustomerID:   order.CustomerID,
		Status:       order.OrderStatus,
		Total:        order.Total,
		Timestamp:    at,
	}
	if eventType == EventOrderPlaced {
		for _, item := range order.Items {
			ev.Items = append(ev.Items, EventItem{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
		}
	}
	if order.Rating != nil {
		ev.Rating = *order.Rating
	}
	return ev
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrItemUnavailable is returned when a menu item is missing, disabled, or
// belongs to another restaurant.
var ErrItemUnavailable = errors.New("menu item unavailable")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Catalog resolves the current price of a menu item and its restaurant's delivery fee.
type Catalog interface {
	Lookup(ctx context.Context, restaurantID, menuItemID int) (*MenuItem, decimal.Decimal, error)
}

// OrderServiceCatalog reads restaurants from order-svc. The restaurant detail
// response embeds its available menu items.
type OrderServiceCatalog struct {
	BaseURL string
	Client  HTTPClient
}

var _ Catalog = (*OrderServiceCatalog)(nil)

type restaurantDetail struct {
	ID          int             `json:"id"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	MenuItems   []struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		IsAvailable bool            `json:"is_available"`
	} `json:"menu_items"`
}

func (c *OrderServiceCatalog) Lookup(ctx context.Context, restaurantID, menuItemID int) (*MenuItem, decimal.Decimal, error) {
	url := c.BaseURL + "/api/restaurants/" + strconv.Itoa(restaurantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, decimal.Zero, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("fetch restaurant %d: %w", restaurantID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, decimal.Zero, ErrItemUnavailable
	case resp.StatusCode != http.StatusOK:
		return nil, decimal.Zero, fmt.Errorf("fetch restaurant %d: unexpected status %d", restaurantID, resp.StatusCode)
	}

	var detail restaurantDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, decimal.Zero, fmt.Errorf("decode restaurant %d: %w", restaurantID, err)
	}
	for _, m := range detail.MenuItems {
		if m.ID == menuItemID && m.IsAvailable {
			return &MenuItem{ID: m.ID, Name: m.Name, Price: m.Price}, detail.DeliveryFee, nil
		}
	}
	return nil, decimal.Zero, ErrItemUnavailable
}

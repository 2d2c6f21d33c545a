package cart

import "github.com/shopspring/decimal"

// TaxRate mirrors the flat rate order-svc charges. Cart figures are previews only;
// the order service re-prices every line at checkout.
var TaxRate = decimal.RequireFromString("0.10")

const currencyPlaces = 2

// MenuItem is the catalog snapshot captured when an item is added.
type MenuItem struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Line struct {
	MenuItemID int             `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// Cart holds lines from a single restaurant. RestaurantID 0 means the scope is unset.
type Cart struct {
	RestaurantID int             `json:"restaurant_id"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	Lines        []Line          `json:"lines"`
	Revision     int             `json:"revision"`
	// CheckoutKey is minted on the first checkout attempt and dropped on any change.
	CheckoutKey  string          `json:"checkout_key,omitempty"`
}

func (c *Cart) AddItem(item MenuItem, restaurantID int) {
	c.touch()
	if c.RestaurantID != restaurantID {
		c.RestaurantID = restaurantID
		c.DeliveryFee = decimal.Zero
		c.Lines = nil
	}
	if i := c.find(item.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
	})
}

func (c *Cart) RemoveItem(menuItemID int) {
	i := c.find(menuItemID)
	if i < 0 {
		return
	}
	c.touch()
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less removes the line.
func (c *Cart) SetQuantity(menuItemID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(menuItemID)
		return
	}
	i := c.find(menuItemID)
	if i < 0 {
		return
	}
	c.touch()
	c.Lines[i].Quantity = quantity
}

func (c *Cart) Clear() {
	c.touch()
	c.RestaurantID = 0
	c.DeliveryFee = decimal.Zero
	c.Lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Subtotal uses the prices cached on each line at add time.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate).Round(currencyPlaces)
}

func (c *Cart) Total() decimal.Decimal {
	if c.Empty() {
		return decimal.Zero
	}
	return c.Subtotal().Add(c.DeliveryFee).Add(c.Tax())
}

// EnsureCheckoutKey returns the cart's idempotency key, minting one if needed.
func (c *Cart) EnsureCheckoutKey(mint func() string) string {
	if c.CheckoutKey == "" {
		c.CheckoutKey = mint()
		c.Revision++
	}
	return c.CheckoutKey
}

func (c *Cart) touch() {
	c.Revision++
	c.CheckoutKey = ""
}

func (c *Cart) find(menuItemID int) int {
	for i, l := range c.Lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// View is the JSON shape returned to clients.
type View struct {
	RestaurantID int             `json:"restaurant_id,omitempty"`
	Lines        []Line          `json:"lines"`
	Count        int             `json:"count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

func (c *Cart) View() View {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return View{
		RestaurantID: c.RestaurantID,
		Lines:        lines,
		Count:        c.Count(),
		Subtotal:     c.Subtotal(),
		DeliveryFee:  c.DeliveryFee,
		Tax:          c.Tax(),
		Total:        c.Total(),
	}
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleRestaurantOwner
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address is stored as a JSONB column on users, restaurants and orders.
type Address struct {
	Street      string       `json:"street" validate:"required"`
	City        string       `json:"city" validate:"required"`
	State       string       `json:"state" validate:"required"`
	ZipCode     string       `json:"zip_code" validate:"required"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("address: unsupported scan type")
	}
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	Address      Address   `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is what the auth layer resolves a bearer token to.
type Identity struct {
	UserID int  `json:"user_id"`
	Role   Role `json:"role"`
}

type Restaurant struct {
	ID                    int             `json:"id"`
	OwnerID               int             `json:"owner_id"`
	Name                  string          `json:"name" validate:"required"`
	Description           string          `json:"description"`
	Cuisine               string          `json:"cuisine"`
	Address               Address         `json:"address"`
	Phone                 string          `json:"phone"`
	Email                 string          `json:"email"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	MinimumOrder          decimal.Decimal `json:"minimum_order"`
	EstimatedDeliveryTime int             `json:"estimated_delivery_time" validate:"gte=0"`
	IsOpen                bool            `json:"is_open"`
	IsActive              bool            `json:"is_active"`
	Rating                decimal.Decimal `json:"rating"`
	ImageURL              string          `json:"image_url"`
	MenuItems             []MenuItem      `json:"menu_items,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// RestaurantFilter narrows the public restaurant listing. Nil fields are ignored.
type RestaurantFilter struct {
	Cuisine   string
	MinRating *decimal.Decimal
	IsOpen    *bool
}

type Category string

const (
	CategoryAppetizer  Category = "appetizer"
	CategoryMainCourse Category = "main_course"
	CategoryDessert    Category = "dessert"
	CategoryBeverage   Category = "beverage"
	CategorySideDish   Category = "side_dish"
)

type MenuItem struct {
	ID              int             `json:"id"`
	RestaurantID    int             `json:"restaurant_id" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description" validate:"required"`
	Price           decimal.Decimal `json:"price"`
	Category        Category        `json:"category" validate:"oneof=appetizer main_course dessert beverage side_dish"`
	ImageURL        string          `json:"image_url"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan"`
	IsSpicy         bool            `json:"is_spicy"`
	Allergens       []string        `json:"allergens" validate:"dive,oneof=dairy nuts gluten eggs soy fish shellfish"`
	PreparationTime int             `json:"preparation_time" validate:"gte=0"`
	IsAvailable     bool            `json:"is_available"`
	Rating          decimal.Decimal `json:"rating"`
	TotalOrders     int             `json:"total_orders"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

const DefaultPreparationTime = 15

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Order struct {
	ID                    int             `json:"id"`
	CustomerID            int             `json:"customer_id"`
	CustomerName          string          `json:"customer_name,omitempty"`
	CustomerPhone         string          `json:"customer_phone,omitempty"`
	RestaurantID          int             `json:"restaurant_id"`
	RestaurantName        string          `json:"restaurant_name,omitempty"`
	Items                 []OrderItem     `json:"items"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
	DeliveryAddress       Address         `json:"delivery_address"`
	PaymentMethod         PaymentMethod   `json:"payment_method"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	OrderStatus           Status          `json:"order_status"`
	EstimatedDeliveryTime time.Time       `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time      `json:"actual_delivery_time,omitempty"`
	SpecialInstructions   string          `json:"special_instructions"`
	Rating                *int            `json:"rating,omitempty"`
	Review                string          `json:"review,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// OrderItem is one line of an order. Price is the catalog price captured at
// order time and never changes afterwards.
type OrderItem struct {
	ID                  int             `json:"id,omitempty"`
	MenuItemID          int             `json:"menu_item_id"`
	Name                string          `json:"name,omitempty"`
	Quantity            int             `json:"quantity"`
	Price               decimal.Decimal `json:"price"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

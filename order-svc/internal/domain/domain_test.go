package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  string
		fee       string
		wantTax   string
		wantTotal string
	}{
		{name: "receipt scenario", subtotal: "24.98", fee: "2.00", wantTax: "2.50", wantTotal: "29.48"},
		{name: "exact tax", subtotal: "10.00", fee: "0", wantTax: "1.00", wantTotal: "11.00"},
		{name: "half rounds away from zero", subtotal: "0.05", fee: "1.50", wantTax: "0.01", wantTotal: "1.56"},
		{name: "round down", subtotal: "12.34", fee: "3.99", wantTax: "1.23", wantTotal: "17.56"},
		{name: "empty", subtotal: "0", fee: "0", wantTax: "0", wantTotal: "0"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			totals := ComputeTotals(dec(testCase.subtotal), dec(testCase.fee))

			assert.True(t, dec(testCase.wantTax).Equal(totals.Tax), "tax %s", totals.Tax)
			assert.True(t, dec(testCase.wantTotal).Equal(totals.Total), "total %s", totals.Total)
			assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.DeliveryFee).Add(totals.Tax)))
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []OrderItem{
		{MenuItemID: 1, Quantity: 2, Price: dec("9.99")},
		{MenuItemID: 2, Quantity: 1, Price: dec("5.00")},
	}

	assert.True(t, dec("24.98").Equal(Subtotal(items)))
	assert.True(t, decimal.Zero.Equal(Subtotal(nil)))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusPreparing, StatusConfirmed, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusDelivered, StatusCancelled, false},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.from)+"->"+string(testCase.to), func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.from.CanTransitionTo(testCase.to))
			assert.Equal(t, testCase.want, PolicyStrict.Allows(testCase.from, testCase.to))
			assert.True(t, PolicyPermissive.Allows(testCase.from, testCase.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusReady.Terminal())
	assert.Empty(t, StatusDelivered.Next())
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled}, StatusPending.Next())
}

func TestParseStatusAndPolicy(t *testing.T) {
	st, ok := ParseStatus(" out_for_delivery ")
	assert.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, st)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)

	assert.Equal(t, PolicyPermissive, ParsePolicy("Permissive"))
	assert.Equal(t, PolicyStrict, ParsePolicy(""))
	assert.Equal(t, PolicyStrict, ParsePolicy("anything"))
}

func TestAddressScanValue(t *testing.T) {
	addr := Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
		Coordinates: &Coordinates{Lat: 39.78, Lng: -89.65}}

	raw, err := addr.Value()
	require.NoError(t, err)

	var scanned Address
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, addr, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, Address{}, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestNewOrderEvent(t *testing.T) {
	rating := 4
	order := &Order{
		ID: 7, RestaurantID: 3, CustomerID: 9, OrderStatus: StatusPending, Total: dec("12.50"),
		Items:  []OrderItem{{MenuItemID: 1, Quantity: 2, Price: dec("5.00")}},
		Rating: &rating,
	}

	placed := NewOrderEvent(EventOrderPlaced, order, order.CreatedAt)
	assert.Equal(t, []EventItem{{MenuItemID: 1, Quantity: 2}}, placed.Items)
	assert.Equal(t, 4, placed.Rating)

	changed := NewOrderEvent(EventOrderStatusChanged, order, order.CreatedAt)
	assert.Empty(t, changed.Items)

	payload, err := json.Marshal(placed)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total":"12.5"`)
}

package domain

import "github.com/shopspring/decimal"

// TaxRate is the flat sales tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.10")

// CurrencyPlaces is the precision money amounts are rounded to.
const CurrencyPlaces = 2

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals derives tax and total from a subtotal and a delivery fee.
// Tax is rounded half away from zero to CurrencyPlaces.
func ComputeTotals(subtotal, deliveryFee decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate).Round(CurrencyPlaces)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       subtotal.Add(deliveryFee).Add(tax),
	}
}

func Subtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

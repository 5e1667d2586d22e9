package shop

import (
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	// TaxRate is applied to the subtotal and rounded half-up to cents.
	TaxRate = decimal.RequireFromString("0.08")

	// FreeShippingThreshold is the subtotal from which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(50)

	// FlatShippingCost applies below FreeShippingThreshold.
	FlatShippingCost = decimal.RequireFromString("5.99")
)

// Totals are computed once when an order is created and never recomputed afterward.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ZeroTotals is what an order shell carries before its lines are reserved.
func ZeroTotals() Totals {
	return Totals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// ComputeTotals derives subtotal, tax, shipping and total from order lines.
func ComputeTotals(lines []OrderLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	return TotalsForSubtotal(subtotal)
}

// TotalsForSubtotal applies tax and shipping rules to a subtotal.
//
// decimal.Round rounds half away from zero, which equals half-up for the non-negative amounts used here.
func TotalsForSubtotal(subtotal decimal.Decimal) Totals {
	subtotal = subtotal.Round(moneyPlaces)
	tax := subtotal.Mul(TaxRate).Round(moneyPlaces)

	shipping := FlatShippingCost
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

package cartview

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineView is one line priced at the current catalog price.
type CartLineView struct {
	ItemID         string          `json:"itemId"`
	Title          string          `json:"title"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
	AvailableStock int             `json:"availableStock"`
	InStock        bool            `json:"inStock"`
}

// CartView is the customer's cart with estimated totals.
type CartView struct {
	CustomerID        string          `json:"customerId"`
	Lines             []CartLineView  `json:"items"`
	TotalItems        int             `json:"totalItems"`
	EstimatedSubtotal decimal.Decimal `json:"subtotal"`
	EstimatedTax      decimal.Decimal `json:"estimatedTax"`
	EstimatedShipping decimal.Decimal `json:"estimatedShipping"`
	EstimatedTotal    decimal.Decimal `json:"estimatedTotal"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

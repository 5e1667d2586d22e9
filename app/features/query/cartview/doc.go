// Package cartview implements the Cart View query.
//
// The view prices every line at the current catalog price, shows how much of each item is on hand,
// and estimates the totals with the same tax and shipping rules checkout uses. Prices and stock may
// still change before checkout. The cart is created on first access, so this query commits.
package cartview

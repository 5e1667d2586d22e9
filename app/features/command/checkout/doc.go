// Package checkout implements the Checkout use case: the customer's cart becomes a PENDING order.
//
// Everything happens in one unit of work. The cart is locked, every line is re-checked against current stock,
// the lines are snapshotted and reserved in ascending item-ID order, the order is stored with its totals
// and the cart is cleared. Any failure rolls all of it back, so a shortfall leaves both the stock and
// the cart untouched.
//
// The OrderPlaced notification is published only after the unit of work has committed.
package checkout

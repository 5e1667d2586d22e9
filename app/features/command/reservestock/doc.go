// Package reservestock implements the Reserve Stock use case: an atomic decrement of an item's
// quantity-on-hand that never oversells, however many callers race for the same item.
//
// Reservation failures caused by a lack of stock are final and not retried.
package reservestock

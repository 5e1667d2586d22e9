// Package clearcart implements the Clear Cart use case. Clearing an empty cart is idempotent.
package clearcart

// Package restorestock implements the Restore Stock use case: an atomic increment of an item's
// quantity-on-hand, for example after goods came back.
package restorestock

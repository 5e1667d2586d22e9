// Package addcartline implements the Add Cart Line use case.
//
// Adding an item that is already in the cart merges the quantities. Both the requested and the merged
// quantity are checked against the item's current stock, but nothing is reserved: the check is
// advisory and checkout checks again.
package addcartline

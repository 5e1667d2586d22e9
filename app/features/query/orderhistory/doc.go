// Package orderhistory implements the Order History query: a customer's own orders, newest first,
// one page at a time.
package orderhistory

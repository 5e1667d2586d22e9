// Package ordersbystatus implements the Orders By Status query, the staff work list: all orders in one
// status, newest first, one page at a time.
package ordersbystatus

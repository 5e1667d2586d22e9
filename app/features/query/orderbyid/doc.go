// Package orderbyid implements the Order By ID query. The owner of the order and staff may view it.
package orderbyid

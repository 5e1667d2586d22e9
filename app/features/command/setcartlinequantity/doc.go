// Package setcartlinequantity implements the Set Cart Line Quantity use case.
//
// A quantity of zero or less removes the line. Setting the quantity a line already has changes nothing.
package setcartlinequantity

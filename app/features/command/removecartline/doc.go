// Package removecartline implements the Remove Cart Line use case.
package removecartline

// Package httpapi exposes the cart, checkout and order operations over HTTP.
//
// The caller's identity is taken from the X-User-ID header, which an upstream authentication
// layer is expected to set. Every route delegates to an observable-wrapped feature handler and
// maps the returned error kind to a status code.
package httpapi

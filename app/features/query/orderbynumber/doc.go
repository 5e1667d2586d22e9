// Package orderbynumber implements the Order By Number query, the lookup behind the human-readable
// ORD-XXXXXXXX numbers. The owner of the order and staff may view it.
package orderbynumber

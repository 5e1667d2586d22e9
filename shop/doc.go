// Package shop holds the domain core of the checkout-and-inventory-consistency engine.
//
// It defines the catalog item, cart and order aggregates, the strict order status table,
// the totals rules, the error taxonomy and the ports a storage engine has to implement:
// Catalog, StockLedger, CartStore, OrderStore and the UnitOfWork that ties them together.
//
// Storage engines live in sub-packages:
//   - postgresengine: PostgreSQL via pgx, database/sql or sqlx
//   - memoryengine: in-process, for tests and single-node tools
//
// The package has no dependencies on any storage or transport technology.
package shop

// Package config provides configuration helpers for the shop service.
//
// It reads DSNs and service settings from the environment, creates PostgreSQL connections for the three
// supported drivers (pgx.Pool, sql.DB, sqlx.DB) and sets up OpenTelemetry providers that export via OTLP gRPC.
//
// This package is part of the shell (infrastructure) layer.
package config

// Package oteladapters plugs OpenTelemetry into the observability ports of package shop.
//
// The engines and the application shell only know shop.ContextualLogger, shop.MetricsCollector and
// shop.TracingCollector. The types in here implement them on top of the OpenTelemetry API so that a
// service can export logs, metrics and traces without writing its own glue.
package oteladapters

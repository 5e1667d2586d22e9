package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/checkout-engine-go/shop/oteladapters"
)

func Test_SlogBridgeLogger_WritesAllLevelsWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "executed sql for: reserve stock", "duration_ms", 1.25)
	logger.InfoContext(ctx, "shop operation: unit of work committed")
	logger.WarnContext(ctx, "stock version conflict detected", "attempt", 2)
	logger.ErrorContext(ctx, "publishing order event failed", "order_number", "ORD-1A2B3C4D")

	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"level":"INFO"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.Contains(t, output, `"duration_ms":1.25`)
	assert.Contains(t, output, `"attempt":2`)
	assert.Contains(t, output, `"order_number":"ORD-1A2B3C4D"`)
}

func Test_SlogBridgeLogger_UsesGlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("shop")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "order placed", "order_number", "ORD-00000000")
	})
}

func Test_OTelLogger_ToleratesOddArguments(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("shop"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug", "key", "value")
		logger.InfoContext(ctx, "info", 42, "non-string key")
		logger.WarnContext(ctx, "warn", "dangling")
		logger.ErrorContext(ctx, "error", "err", assert.AnError)
	})
}

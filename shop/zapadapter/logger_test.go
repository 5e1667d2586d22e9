package zapadapter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AntonStoeckl/checkout-engine-go/shop/zapadapter"
)

func givenObservedLogger() (*zapadapter.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return zapadapter.New(zap.New(core)), logs
}

func Test_Logger_MapsLevelsAndFields(t *testing.T) {
	logger, logs := givenObservedLogger()

	logger.Debug("executed sql for: reserve stock", "duration_ms", 1.5)
	logger.Info("order placed", "order_number", "ORD-1A2B3C4D")
	logger.Warn("stock version conflict detected", "attempt", 2)
	logger.Error("publishing order event failed", "error", "broker down")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "ORD-1A2B3C4D", entries[1].ContextMap()["order_number"])
	assert.EqualValues(t, 2, entries[2].ContextMap()["attempt"])
}

func Test_Logger_ContextMethodsAddTraceCorrelation(t *testing.T) {
	logger, logs := givenObservedLogger()
	traceID := trace.TraceID{0x01, 0x02, 0x03}
	spanID := trace.SpanID{0x0a, 0x0b}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "shop operation: unit of work committed", "duration_ms", 3.2)
	logger.WarnContext(context.Background(), "no span here")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, traceID.String(), entries[0].ContextMap()["trace_id"])
	assert.Equal(t, spanID.String(), entries[0].ContextMap()["span_id"])
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func Test_New_WithNilLoggerDiscards(t *testing.T) {
	logger := zapadapter.New(nil)

	assert.NotPanics(t, func() {
		logger.ErrorContext(context.Background(), "dropped")
	})
}

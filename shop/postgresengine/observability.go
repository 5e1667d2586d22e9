package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

const (
	metricStockReserveDuration = "shop_stock_reserve_duration_seconds"
	metricStockReserveTotal    = "shop_stock_reserve_total"
	metricStockConflicts       = "shop_stock_conflicts_total"
	metricUnitOfWorkDuration   = "shop_unit_of_work_duration_seconds"
	metricUnitOfWorkTotal      = "shop_unit_of_work_total"
	metricDatabaseErrors       = "shop_database_errors_total"

	spanNameReserve = "shop.stock.reserve"
	spanNameRestore = "shop.stock.restore"
	spanNameCommit  = "shop.unit_of_work.commit"

	spanAttrOperation  = "operation"
	spanAttrItemID     = "item_id"
	spanAttrQuantity   = "quantity"
	spanAttrErrorType  = "error_type"
	spanAttrDurationMS = "duration_ms"
	spanAttrStrategy   = "strategy"

	labelStatus       = "status"
	labelConflictType = "conflict_type"

	operationReserve  = "reserve"
	operationRestore  = "restore"
	operationCommit   = "commit"
	operationRollback = "rollback"

	statusSuccess = "success"
	statusError   = "error"

	strategyRowLock    = "row_lock"
	strategyOptimistic = "optimistic"
)

func (s StockStrategy) String() string {
	if s == StockStrategyOptimistic {
		return strategyOptimistic
	}

	return strategyRowLock
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (e *Engine) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case e.logger != nil:
		e.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (e *Engine) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case e.logger != nil:
		e.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarning logs non-critical problems at warn level.
func (e *Engine) logWarning(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.WarnContext(ctx, message, allArgs...)
	case e.logger != nil:
		e.logger.Warn(message, allArgs...)
	}
}

// logError logs error information at the error level.
func (e *Engine) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case e.logger != nil:
		e.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDuration records a duration, with context if the collector supports it.
func (e *Engine) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextual, ok := e.metricsCollector.(shop.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	e.metricsCollector.RecordDuration(metric, duration, labels)
}

// incrementCounter increments a counter, with context if the collector supports it.
func (e *Engine) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextual, ok := e.metricsCollector.(shop.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	e.metricsCollector.IncrementCounter(metric, labels)
}

// recordDatabaseError counts failed statements by operation and error type.
func (e *Engine) recordDatabaseError(ctx context.Context, operation, errorType string) {
	e.incrementCounter(ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

// recordStockConflict counts lost compare-and-swap rounds of the optimistic strategy.
func (e *Engine) recordStockConflict(ctx context.Context, operation string) {
	e.incrementCounter(ctx, metricStockConflicts, map[string]string{
		spanAttrOperation: operation,
		labelConflictType: "concurrency",
	})
}

// startSpan starts a tracing span if the tracing collector is configured.
func (e *Engine) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, shop.SpanContext) {
	if e.tracingCollector != nil {
		return e.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishSpan finishes a tracing span if the tracing collector is configured.
func (e *Engine) finishSpan(span shop.SpanContext, status string, duration time.Duration, attrs map[string]string) {
	if e.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	e.tracingCollector.FinishSpan(span, status, attrs)
}

// stockObserver encapsulates metrics and tracing for one Reserve or Restore call.
type stockObserver struct {
	engine    *Engine
	ctx       context.Context
	span      shop.SpanContext
	operation string
	start     time.Time
}

func (e *Engine) observeStockChange(
	ctx context.Context,
	spanName string,
	operation string,
	itemID fmt.Stringer,
	quantity int,
) (*stockObserver, context.Context) {

	spanCtx, span := e.startSpan(ctx, spanName, map[string]string{
		spanAttrOperation: operation,
		spanAttrItemID:    itemID.String(),
		spanAttrQuantity:  fmt.Sprintf("%d", quantity),
		spanAttrStrategy:  e.stockStrategy.String(),
	})

	return &stockObserver{engine: e, ctx: spanCtx, span: span, operation: operation, start: time.Now()}, spanCtx
}

func (o *stockObserver) finish(err error) {
	duration := time.Since(o.start)
	status := statusSuccess
	attrs := map[string]string{}

	if err != nil {
		status = statusError
		attrs[spanAttrErrorType] = string(shop.KindOf(err))
	}

	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: status}
	if err != nil {
		labels[spanAttrErrorType] = string(shop.KindOf(err))
	}

	o.engine.recordDuration(o.ctx, metricStockReserveDuration, duration, labels)
	o.engine.incrementCounter(o.ctx, metricStockReserveTotal, labels)
	o.engine.finishSpan(o.span, status, duration, attrs)
}

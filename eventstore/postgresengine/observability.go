package postgresengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgCreateSchemaFailed       = "failed to create the events schema"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSchemaCreated            = "schema created"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrTable            = "table"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"

	actionQuery  = "query"
	actionAppend = "append"

	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrDurationMS   = "duration_ms"
	spanAttrErrorType    = "error_type"
	spanAttrConsistency  = "consistency"

	labelStatus       = "status"
	labelConflictType = "conflict_type"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery          = "build_query"
	errorTypeDatabaseQuery       = "database_query"
	errorTypeDatabaseExec        = "database_exec"
	errorTypeRowScan             = "row_scan"
	errorTypeRowsAffected        = "rows_affected"
	errorTypeConcurrencyConflict = "concurrency_conflict"
)

/***** Logging *****/

// logSQL logs SQL statements with execution time at debug level.
func (es *EventStore) logSQL(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case es.logger != nil:
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case es.logger != nil:
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.WarnContext(ctx, message, allArgs...)
	case es.logger != nil:
		es.logger.Warn(message, allArgs...)
	}
}

func (es *EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case es.logger != nil:
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(toMilliseconds(d), 'f', 2, 64)
}

/***** Tracing *****/

// tracingObserver owns the span of one operation, all methods are no-ops without a tracing collector.
type tracingObserver struct {
	collector eventstore.TracingCollector
	span      eventstore.SpanContext
}

func (es *EventStore) startQueryTracing(ctx context.Context) (*tracingObserver, context.Context) {
	return es.startTracing(ctx, spanNameQuery, map[string]string{
		spanAttrOperation:   actionQuery,
		spanAttrConsistency: eventstore.GetConsistencyLevel(ctx).String(),
	})
}

func (es *EventStore) startAppendTracing(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*tracingObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:   actionAppend,
		spanAttrEventCount:  strconv.Itoa(len(events)),
		spanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	return es.startTracing(ctx, spanNameAppend, attrs)
}

func (es *EventStore) startTracing(ctx context.Context, name string, attrs map[string]string) (*tracingObserver, context.Context) {
	observer := &tracingObserver{collector: es.tracingCollector}

	if es.tracingCollector == nil {
		return observer, ctx
	}

	ctx, observer.span = es.tracingCollector.StartSpan(ctx, name, attrs)

	return observer, ctx
}

func (to *tracingObserver) finish(status string, attrs map[string]string) {
	if to.collector == nil || to.span == nil {
		return
	}

	to.span.SetStatus(status)
	for key, value := range attrs {
		to.span.AddAttribute(key, value)
	}

	to.collector.FinishSpan(to.span, status, attrs)
}

func (to *tracingObserver) finishError(errorType string, duration time.Duration) {
	to.finish(statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

func (to *tracingObserver) finishSuccess(
	eventStream eventstore.StorableEvents,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	duration time.Duration,
) {

	to.finish(statusSuccess, map[string]string{
		spanAttrEventCount:  strconv.Itoa(len(eventStream)),
		spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		spanAttrDurationMS:  formatMilliseconds(duration),
	})
}

func (to *tracingObserver) finishAppendSuccess(rowsAffected int64, duration time.Duration) {
	to.finish(statusSuccess, map[string]string{
		spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
		spanAttrDurationMS:   formatMilliseconds(duration),
	})
}

/***** Metrics *****/

// metricsObserver records the metrics of one operation, all methods are no-ops without a metrics collector.
type metricsObserver struct {
	es        *EventStore
	ctx       context.Context
	operation string
}

func (es *EventStore) startQueryMetrics(ctx context.Context) *metricsObserver {
	return &metricsObserver{es: es, ctx: ctx, operation: actionQuery}
}

func (es *EventStore) startAppendMetrics(ctx context.Context) *appendMetricsObserver {
	return &appendMetricsObserver{metricsObserver{es: es, ctx: ctx, operation: actionAppend}}
}

func (mo *metricsObserver) recordSuccess(eventStream eventstore.StorableEvents, duration time.Duration) {
	mo.recordDuration(metricQueryDuration, duration, statusSuccess)
	mo.recordValue(metricEventsQueried, float64(len(eventStream)), statusSuccess)
}

func (mo *metricsObserver) recordError(errorType string, duration time.Duration) {
	metric := metricQueryDuration
	if mo.operation == actionAppend {
		metric = metricAppendDuration
	}

	mo.recordDuration(metric, duration, statusError)
	mo.incrementCounter(metricDatabaseErrors, map[string]string{
		spanAttrOperation: mo.operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

type appendMetricsObserver struct {
	metricsObserver
}

// recordSuccess shadows the query variant, appends count events instead of a stream.
func (amo *appendMetricsObserver) recordSuccess(eventCount int, duration time.Duration) {
	amo.recordDuration(metricAppendDuration, duration, statusSuccess)
	amo.recordValue(metricEventsAppended, float64(eventCount), statusSuccess)
}

func (amo *appendMetricsObserver) recordConcurrencyConflict() {
	amo.incrementCounter(metricConcurrencyConflicts, map[string]string{
		spanAttrOperation: amo.operation,
		labelConflictType: "concurrency",
	})
}

func (mo *metricsObserver) recordDuration(metric string, duration time.Duration, status string) {
	collector := mo.es.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: mo.operation, labelStatus: status}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(mo.ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func (mo *metricsObserver) recordValue(metric string, value float64, status string) {
	collector := mo.es.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: mo.operation, labelStatus: status}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(mo.ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

func (mo *metricsObserver) incrementCounter(metric string, labels map[string]string) {
	collector := mo.es.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(mo.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"
	colSequenceNumber     = "sequence_number"
	colOccurredAt         = "occurred_at"
	colEventType          = "event_type"
	colPayload            = "payload"
	colMetadata           = "metadata"
	cteContext            = "context"
	cteVals               = "vals"
	dialectPostgres       = "postgres"
	aliasMaxSeq           = "max_seq"
	castText              = "?::text"
	castTimestamp         = "?::timestamp with time zone"
	castJsonb             = "?::jsonb"
	payloadContainsJsonb  = `"payload" @> ?::jsonb`
)

// EventStore is the Postgres engine of the event store.
// It is safe for concurrent use as long as the underlying connection is.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore which reads from the replica
// when the context carries eventstore.WithEventualConsistency.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a sql.DB, for example opened with the lib/pq driver.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db, nil), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx.DB.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db, nil), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query retrieves all events matching the filter, ordered by sequence number,
// plus the sequence number of the last one (0 if there is none).
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	tracing, ctx := es.startQueryTracing(ctx)
	metrics := es.startQueryMetrics(ctx)
	start := time.Now()

	sqlQuery, args, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)
		tracing.finishError(errorTypeBuildQuery, time.Since(start))
		metrics.recordError(errorTypeBuildQuery, time.Since(start))

		return nil, 0, buildErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery, args...)
	es.logSQL(ctx, sqlQuery, actionQuery, time.Since(start))
	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		tracing.finishError(errorTypeDatabaseQuery, time.Since(start))
		metrics.recordError(errorTypeDatabaseQuery, time.Since(start))

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, scanErr := es.scanRows(ctx, rows)
	if scanErr != nil {
		tracing.finishError(errorTypeRowScan, time.Since(start))
		metrics.recordError(errorTypeRowScan, time.Since(start))

		return nil, 0, scanErr
	}

	duration := time.Since(start)
	es.logOperation(ctx, logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, toMilliseconds(duration))
	tracing.finishSuccess(eventStream, maxSequenceNumber, duration)
	metrics.recordSuccess(eventStream, duration)

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) scanRows(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)
	row := queryResultRow{}

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			es.logError(ctx, logMsgScanRowFailed, err)

			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := eventstore.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if err != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, err, logAttrEventType, row.eventType)

			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = row.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		es.logError(ctx, logMsgScanRowFailed, err)

		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, err)
	}
}

// Append appends the events atomically if no event matching the filter was appended after
// expectedMaxSequenceNumber, else it fails with eventstore.ErrConcurrencyConflict.
//
// The filter must be the one used for the Query the decision was based on.
// One command should produce one event, multiple events need a heavier statement.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	tracing, ctx := es.startAppendTracing(ctx, allEvents, expectedMaxSequenceNumber)
	metrics := es.startAppendMetrics(ctx)
	start := time.Now()

	sqlQuery, args, buildErr := es.buildInsertQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildErr, logAttrEventCount, len(allEvents))
		tracing.finishError(errorTypeBuildQuery, time.Since(start))
		metrics.recordError(errorTypeBuildQuery, time.Since(start))

		return buildErr
	}

	result, execErr := es.db.Exec(ctx, sqlQuery, args...)
	es.logSQL(ctx, sqlQuery, actionAppend, time.Since(start))
	if execErr != nil {
		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		tracing.finishError(errorTypeDatabaseExec, time.Since(start))
		metrics.recordError(errorTypeDatabaseExec, time.Since(start))

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		tracing.finishError(errorTypeRowsAffected, time.Since(start))
		metrics.recordError(errorTypeRowsAffected, time.Since(start))

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	duration := time.Since(start)

	if rowsAffected < int64(len(allEvents)) {
		es.logOperation(ctx, logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(allEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber)
		tracing.finishError(errorTypeConcurrencyConflict, duration)
		metrics.recordConcurrencyConflict()

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(ctx, logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrDurationMS, toMilliseconds(duration))
	tracing.finishAppendSuccess(rowsAffected, duration)
	metrics.recordSuccess(len(allEvents), duration)

	return nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Prepared(true).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	whereExpression, err := buildWhereExpression(filter)
	if err != nil {
		return "", nil, err
	}

	sqlQuery, args, toSQLErr := selectStmt.Where(whereExpression).ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// buildInsertQuery builds an INSERT which only inserts if the max sequence number of the
// dynamic event stream still equals the expected one, so a conflict shows as 0 rows affected.
func (es *EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, []any, error) {

	builder := goqu.Dialect(dialectPostgres)

	whereExpression, err := buildWhereExpression(filter)
	if err != nil {
		return "", nil, err
	}

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq)).
		Where(whereExpression)

	valuesStmt := selectEventValues(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(selectEventValues(builder, event))
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Prepared(true).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.T(cteContext).Col(aliasMaxSeq), 0).Eq(expectedMaxSequenceNumber)),
		)

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func selectEventValues(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	)
}

// buildWhereExpression ORs the filter items and ANDs the optional sequence bound. Payload predicates become jsonb containment checks
// with the JSON document bound as a parameter, so keys and values never end up in the SQL text.
func buildWhereExpression(filter eventstore.Filter) (exp.ExpressionList, error) {
	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpression := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpression = append(itemExpression, goqu.C(colEventType).In(item.EventTypes()))
		}

		predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			document, err := jsoniter.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
			if err != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContainsJsonb, document))
		}

		if item.AllPredicatesMustMatch() {
			itemExpression = append(itemExpression, goqu.And(predicateExpressions...))
		} else {
			itemExpression = append(itemExpression, goqu.Or(predicateExpressions...))
		}

		itemExpressions = append(itemExpressions, goqu.And(itemExpression...))
	}

	if filter.SequenceNumberHigherThan() > 0 {
		return goqu.And(
			goqu.Or(itemExpressions...),
			goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()),
		), nil
	}

	return goqu.Or(itemExpressions...), nil
}

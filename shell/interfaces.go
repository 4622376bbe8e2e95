package shell

import (
	"context"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

// MetricsCollector, TracingCollector and the loggers are the event store's observability
// interfaces, so one adapter serves the store and the handlers.
type (
	MetricsCollector           = eventstore.MetricsCollector
	ContextualMetricsCollector = eventstore.ContextualMetricsCollector
	TracingCollector           = eventstore.TracingCollector
	SpanContext                = eventstore.SpanContext
	ContextualLogger           = eventstore.ContextualLogger
	Logger                     = eventstore.Logger
)

// QueriesEvents is the read side of an event store engine.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need from an event store engine.
// Both postgresengine.EventStore and memoryengine.EventStore satisfy it.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by all commands, CommandType labels logs, metrics and spans.
// It must work on the zero value.
type Command interface {
	CommandType() string
}

// CoreCommandHandler runs Query -> Unmarshal -> Decide -> Append for one command without observability.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is implemented by all queries, QueryType labels logs, metrics and spans.
// It must work on the zero value.
type Query interface {
	QueryType() string
}

// QueryResult is a projection which knows the last event sequence number it includes.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler runs Query -> Unmarshal -> Project for one query without observability.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// FilterBuilderFunc returns the filter a query handler reads its events with.
type FilterBuilderFunc[Q Query] func(query Q) eventstore.Filter

// IncrementalProjectionFunc folds events on top of base, a projection restored from a snapshot.
// Folding the newer events onto a snapshot must give the same result as projecting the full history.
type IncrementalProjectionFunc[Q Query, R QueryResult] func(
	base R,
	history core.DomainEvents,
	query Q,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
) R

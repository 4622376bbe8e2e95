package postgresengine

import (
	"regexp"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

var validTableName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Option configures an EventStore.
type Option func(*EventStore) error

// WithTableName sets the events table name, the default is "events".
// Only lower case identifiers are accepted since the name is part of the DDL.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		if !validTableName.MatchString(tableName) {
			return eventstore.ErrInvalidEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets a logger:
//
// Debug level: SQL statements with execution timing
// Info level: event counts, durations, concurrency conflicts
// Warn level: cleanup failures
// Error level: failures which make the operation fail
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, it is used instead of the plain logger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets a collector for durations, event counts, conflicts and database errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets a collector which receives one span per Query and Append.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}

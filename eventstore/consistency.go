package eventstore

import "context"

// ConsistencyLevel tells an engine whether a Query must see all committed writes.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Command handlers need it for their read-decide-write cycle.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica, the result might lag behind.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key under which the ConsistencyLevel is stored.
const ConsistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency marks the context so that Query reads from the primary.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks the context so that Query may read from a replica.
// The lending status query uses it, command handlers never do.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns StrongConsistency unless the context says otherwise.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}

package snapshot

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
)

const (
	snapshotSaveTimeout = 10 * time.Second
)

var (
	ErrSnapshotLoadFailed            = errors.New("snapshot load failed")
	ErrIncrementalQueryFailed        = errors.New("incremental query failed")
	ErrEventUnmarshalingFailed       = errors.New("event unmarshaling failed")
	ErrSnapshotDeserializationFailed = errors.New("snapshot deserialization failed")
	ErrSnapshotSaveFailed            = errors.New("snapshot save failed")
	ErrJSONSerializationFailed       = errors.New("json serialization failed")
	ErrNilDependency                 = errors.New("snapshot wrapper dependency must not be nil")
)

// SavesAndLoadsSnapshots is implemented by memoryengine.EventStore and postgresengine.EventStore.
type SavesAndLoadsSnapshots interface {
	SaveSnapshot(ctx context.Context, snapshot eventstore.Snapshot) error
	LoadSnapshot(ctx context.Context, projectionType string, filter eventstore.Filter) (*eventstore.Snapshot, error)
}

// QueriesEventsAndHandlesSnapshots is what the QueryWrapper needs from an event store engine.
type QueriesEventsAndHandlesSnapshots interface {
	shell.QueriesEvents
	SavesAndLoadsSnapshots
}

// QueryWrapper serves a query from its stored snapshot plus the newer events.
// The projection type of the snapshots is the QueryType of Q.
type QueryWrapper[Q shell.Query, R shell.QueryResult] struct {
	coreHandler   shell.CoreQueryHandler[Q, R]
	eventStore    QueriesEventsAndHandlesSnapshots
	projectFunc   shell.IncrementalProjectionFunc[Q, R]
	filterBuilder shell.FilterBuilderFunc[Q]
}

func NewQueryWrapper[Q shell.Query, R shell.QueryResult](
	coreHandler shell.CoreQueryHandler[Q, R],
	eventStore QueriesEventsAndHandlesSnapshots,
	projectFunc shell.IncrementalProjectionFunc[Q, R],
	filterBuilder shell.FilterBuilderFunc[Q],
) (*QueryWrapper[Q, R], error) {

	if coreHandler == nil || eventStore == nil || projectFunc == nil || filterBuilder == nil {
		return nil, ErrNilDependency
	}

	return &QueryWrapper[Q, R]{
		coreHandler:   coreHandler,
		eventStore:    eventStore,
		projectFunc:   projectFunc,
		filterBuilder: filterBuilder,
	}, nil
}

// Handle reads with eventual consistency, like the query handlers it wraps.
// Errors of the wrapped handler are returned unchanged, snapshot errors are joined with a sentinel of this package.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	var zero R

	ctx = eventstore.WithEventualConsistency(ctx)
	baseFilter := w.filterBuilder(query)

	snapshot, err := w.eventStore.LoadSnapshot(ctx, query.QueryType(), baseFilter)
	if err != nil {
		return zero, errors.Join(ErrSnapshotLoadFailed, err)
	}

	if snapshot == nil {
		return w.fallbackAndSaveSnapshot(ctx, query, baseFilter)
	}

	storableEvents, maxSeq, err := w.eventStore.Query(ctx, baseFilter.WithSequenceNumberHigherThan(snapshot.SequenceNumber))
	if err != nil {
		return zero, errors.Join(ErrIncrementalQueryFailed, err)
	}

	newerEvents, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return zero, errors.Join(ErrEventUnmarshalingFailed, err)
	}

	var base R
	if err = jsoniter.ConfigFastest.Unmarshal(snapshot.Data, &base); err != nil {
		return zero, errors.Join(ErrSnapshotDeserializationFailed, err)
	}

	finalSequence := max(maxSeq, snapshot.SequenceNumber)
	result := w.projectFunc(base, newerEvents, query, finalSequence)

	if len(newerEvents) == 0 {
		return result, nil
	}

	if err = w.saveSnapshot(ctx, query, baseFilter, result); err != nil {
		return zero, err
	}

	return result, nil
}

func (w *QueryWrapper[Q, R]) fallbackAndSaveSnapshot(ctx context.Context, query Q, baseFilter eventstore.Filter) (R, error) {
	result, err := w.coreHandler.Handle(ctx, query)
	if err != nil {
		return result, err
	}

	if err = w.saveSnapshot(ctx, query, baseFilter, result); err != nil {
		return *new(R), err
	}

	return result, nil
}

// saveSnapshot inherits cancellation from ctx but gets its own deadline.
func (w *QueryWrapper[Q, R]) saveSnapshot(parentCtx context.Context, query Q, filter eventstore.Filter, projection R) error {
	ctx, cancel := context.WithTimeout(parentCtx, snapshotSaveTimeout)
	defer cancel()

	data, err := jsoniter.ConfigFastest.Marshal(projection)
	if err != nil {
		return errors.Join(ErrSnapshotSaveFailed, ErrJSONSerializationFailed, err)
	}

	snapshot, err := eventstore.BuildSnapshot(query.QueryType(), filter.Hash(), projection.GetSequenceNumber(), data)
	if err != nil {
		return errors.Join(ErrSnapshotSaveFailed, err)
	}

	if err = w.eventStore.SaveSnapshot(ctx, snapshot); err != nil {
		return errors.Join(ErrSnapshotSaveFailed, err)
	}

	return nil
}

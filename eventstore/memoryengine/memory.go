package memoryengine

import (
	"context"
	"errors"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrMaxSequence        = "max_sequence"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrFilter             = "filter"
	logMsgSnapshotSaved       = "eventstore operation: snapshot saved"
	logAttrProjectionType     = "projection_type"
)

// ErrDecodingPayloadFailed is returned by Append for payloads which are not a JSON object.
var ErrDecodingPayloadFailed = errors.New("decoding the event payload failed")

type storedEvent struct {
	event          eventstore.StorableEvent
	payload        map[string]any
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// EventStore keeps events and projection snapshots in memory. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu               sync.RWMutex
	events           []storedEvent
	snapshots        map[string]eventstore.Snapshot
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithLogger sets a logger which receives one info line per operation.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger, it is preferred over the plain logger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) {
		es.contextualLogger = logger
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{
		snapshots: make(map[string]eventstore.Snapshot),
	}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns all events matching the filter in append order,
// plus the sequence number of the last matching event (0 if there is none).
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !matches(filter, stored) {
			continue
		}

		eventStream = append(eventStream, stored.event)
		maxSequenceNumber = stored.sequenceNumber
	}

	es.logInfo(ctx, logMsgQueryCompleted, logAttrEventCount, len(eventStream), logAttrMaxSequence, maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// Append appends the events atomically if no event matching the filter was appended
// after expectedMaxSequenceNumber. Otherwise, it fails with eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	decoded := make([]map[string]any, 0, len(allEvents))
	for _, e := range allEvents {
		payload := make(map[string]any)
		if err := jsoniter.Unmarshal(e.PayloadJSON, &payload); err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, ErrDecodingPayloadFailed, err)
		}

		decoded = append(decoded, payload)
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if current := es.currentMaxSequenceNumber(filter); current != expectedMaxSequenceNumber {
		es.logInfo(ctx, logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrMaxSequence, current,
			logAttrFilter, filter.String())

		return eventstore.ErrConcurrencyConflict
	}

	for i, e := range allEvents {
		es.events = append(es.events, storedEvent{
			event:          e,
			payload:        decoded[i],
			sequenceNumber: eventstore.MaxSequenceNumberUint(len(es.events) + 1),
		})
	}

	es.logInfo(ctx, logMsgEventsAppended, logAttrEventCount, len(allEvents))

	return nil
}

// SaveSnapshot stores the snapshot unless a snapshot of the same projection and filter
// with a higher sequence number is already stored.
func (es *EventStore) SaveSnapshot(ctx context.Context, snapshot eventstore.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrSavingSnapshotFailed, err)
	}

	if err := snapshot.Validate(); err != nil {
		return errors.Join(eventstore.ErrSavingSnapshotFailed, err)
	}

	key := snapshotKey(snapshot.ProjectionType, snapshot.FilterHash)

	es.mu.Lock()
	defer es.mu.Unlock()

	if stored, ok := es.snapshots[key]; ok && stored.SequenceNumber > snapshot.SequenceNumber {
		return nil
	}

	snapshot.Data = slices.Clone(snapshot.Data)
	es.snapshots[key] = snapshot

	es.logInfo(ctx, logMsgSnapshotSaved,
		logAttrProjectionType, snapshot.ProjectionType,
		logAttrMaxSequence, snapshot.SequenceNumber)

	return nil
}

// LoadSnapshot returns the snapshot of the projection built from the filter, or nil if there is none.
func (es *EventStore) LoadSnapshot(
	ctx context.Context,
	projectionType string,
	filter eventstore.Filter,
) (*eventstore.Snapshot, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(eventstore.ErrLoadingSnapshotFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	stored, ok := es.snapshots[snapshotKey(projectionType, filter.Hash())]
	if !ok {
		return nil, nil
	}

	stored.Data = slices.Clone(stored.Data)

	return &stored, nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

// currentMaxSequenceNumber must be called with the lock held.
func (es *EventStore) currentMaxSequenceNumber(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if matches(filter, stored) {
			maxSequenceNumber = stored.sequenceNumber
		}
	}

	return maxSequenceNumber
}

func (es *EventStore) logInfo(ctx context.Context, msg string, args ...any) {
	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func snapshotKey(projectionType, filterHash string) string {
	return projectionType + "/" + filterHash
}

func matches(filter eventstore.Filter, stored storedEvent) bool {
	if stored.sequenceNumber <= filter.SequenceNumberHigherThan() {
		return false
	}

	if filter.MatchesAnyEvent() {
		return true
	}

	for _, item := range filter.Items() {
		if matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), stored.event.EventType) {
		return false
	}

	predicates := item.Predicates()
	if len(predicates) == 0 {
		return true
	}

	for _, predicate := range predicates {
		val, ok := stored.payload[predicate.Key()].(string)
		hit := ok && val == predicate.Val()

		if item.AllPredicatesMustMatch() && !hit {
			return false
		}

		if !item.AllPredicatesMustMatch() && hit {
			return true
		}
	}

	return item.AllPredicatesMustMatch()
}

package lendingstatus

import (
	"context"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a QueryHandler that reads from the event store.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle reads with eventual consistency, a status report may lag behind the latest command.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LendingStatus, error) {
	filter := BuildEventFilter()

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return LendingStatus{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return LendingStatus{}, err
	}

	return Project(history, query, maxSeq), nil
}

package bookavailability

import (
	"context"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for one book.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a QueryHandler that reads from the event store.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (BookAvailability, error) {
	filter := BuildEventFilter(query.Book.ID)

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return BookAvailability{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BookAvailability{}, err
	}

	return Project(history, query, maxSeq)
}

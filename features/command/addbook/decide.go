package addbook

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// Decide implements the business logic to determine whether a book should be added to the catalog.
//
// Business Rules:
//
//	GIVEN: A book with BookID, title and author
//	WHEN: AddBook command is received
//	THEN: BookAddedToCatalog event is generated
//	IDEMPOTENCY: If a book with this BookID is already in the catalog, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	tracker := lending.Replay("", history)

	if _, catalogued := tracker.Book(command.Book.ID); catalogued {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildBookAddedToCatalog(command.Book, command.OccurredAt))
}

// BuildEventFilter creates the filter for the events which decide whether the book is catalogued.
func BuildEventFilter(bookID core.BookID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}

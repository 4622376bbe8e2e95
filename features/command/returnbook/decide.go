package returnbook

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// Decide implements the business logic to determine whether a book can be returned.
//
// Business Rules:
//
//	GIVEN: A book with BookID
//	WHEN: ReturnBook command is received
//	THEN: BookReturned event naming the borrower is generated
//	ERROR: *lending.NotBorrowedError if the book is not on loan, which includes unknown books
//
// The error comes with a ReturningBookFailed event.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	tracker := lending.Replay("", history)
	borrower, _ := tracker.BorrowerOf(command.Book)

	if err := tracker.ReturnBook(command.Book); err != nil {
		return core.ErrorDecision(
			core.BuildReturningBookFailed(command.Book.ID, err.Error(), command.OccurredAt),
			err)
	}

	return core.SuccessDecision(core.BuildBookReturned(command.Book.ID, borrower, command.OccurredAt))
}

// BuildEventFilter matches the life cycle events of the book.
func BuildEventFilter(bookID core.BookID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}

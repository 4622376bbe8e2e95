package borrowbook

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// Decide implements the business logic to determine whether a book can be lent to a member.
// This is a pure function with no side effects.
//
// Business Rules, checked in this order:
//
//	GIVEN: A book with BookID and a person
//	WHEN: BorrowBook command is received
//	THEN: BookBorrowed event is generated
//	ERROR: *lending.NotAMemberError if the person is not a member
//	ERROR: *lending.UnknownBookError if the book is not in the catalog
//	ERROR: *lending.AlreadyBorrowedError if the book is on loan, also to this member
//
// Every error comes with a BorrowingBookFailed event.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	tracker := lending.Replay("", history)

	if err := tracker.BorrowBook(command.Book, command.Member); err != nil {
		return core.ErrorDecision(
			core.BuildBorrowingBookFailed(
				command.Book.ID,
				command.Member,
				err.Error(),
				command.OccurredAt),
			err)
	}

	return core.SuccessDecision(
		core.BuildBookBorrowed(command.Book.ID, command.Member, command.OccurredAt))
}

// BuildEventFilter combines the consistency boundaries of the book and of the member:
// the life cycle events of the book OR the registration of the member.
func BuildEventFilter(bookID core.BookID, member core.Person) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		OrMatching().
		AnyEventTypeOf(core.MemberAddedEventType).
		AndAllPredicatesOf(
			eventstore.P("MemberFirstName", member.FirstName),
			eventstore.P("MemberLastName", member.LastName),
		).
		Finalize()
}

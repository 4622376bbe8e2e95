package bookavailability

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// Project fails with *lending.UnknownBookError for a book that is not in the catalog,
// it never reports such a book as unavailable.
func Project(history core.DomainEvents, query Query, maxSequence uint) (BookAvailability, error) {
	tracker := lending.Replay("", history)

	available, err := tracker.IsAvailable(query.Book)
	if err != nil {
		return BookAvailability{SequenceNumber: maxSequence}, err
	}

	book, _ := tracker.Book(query.Book.ID)
	result := BookAvailability{
		Book:           book,
		Available:      available,
		SequenceNumber: maxSequence,
	}

	if borrower, onLoan := tracker.BorrowerOf(book); onLoan {
		result.Borrower = &borrower
	}

	return result, nil
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

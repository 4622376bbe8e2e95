package lendingstatus

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// Project replays the history into a lending.Tracker and takes its status snapshot.
//
// Query Logic:
//
//	GIVEN: All catalog, membership and loan events
//	WHEN: LendingStatus query is executed
//	THEN: LendingStatus is returned
//	INCLUDES: Catalog and available books in catalog order, members in registration order
//	EXCLUDES: Failure events, they don't change the state
func Project(history core.DomainEvents, query Query, maxSequence uint) LendingStatus {
	return LendingStatus{
		Snapshot:       lending.Replay(query.LibraryName, history).StatusSnapshot(),
		SequenceNumber: maxSequence,
	}
}

// ProjectOnto continues a stored LendingStatus with the events that were appended after it.
// ProjectOnto(Project(older, ...), newer, ...) equals Project(older+newer, ...).
func ProjectOnto(base LendingStatus, history core.DomainEvents, query Query, maxSequence uint) LendingStatus {
	tracker := lending.Restore(query.LibraryName, base.Snapshot)

	for _, event := range history {
		tracker.Apply(event)
	}

	return LendingStatus{
		Snapshot:       tracker.StatusSnapshot(),
		SequenceNumber: maxSequence,
	}
}

// FilterFor returns the filter of the query, the status of every library is built from the same events.
func FilterFor(_ Query) eventstore.Filter {
	return BuildEventFilter()
}

// BuildEventFilter matches every event that changes the lending state.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.MemberAddedEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}

// Package eventstore holds the storage-agnostic building blocks of the lending event store:
// the Filter that defines a dynamic event stream, the StorableEvent DTO, consistency
// flags carried in the context and the observability interfaces the engines report to.
//
// A dynamic event stream is not a physical stream, it is whatever a Filter matches.
// Commands query with a Filter, decide on the returned history and append with the same Filter
// and the max sequence number they saw. The append fails with ErrConcurrencyConflict if any
// matching event was appended in between.
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.BookAddedToCatalogEventType,
//			core.BookBorrowedEventType,
//			core.BookReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// ... decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Engines live in the postgresengine and memoryengine subpackages.
package eventstore

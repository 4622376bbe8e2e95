// Package lending keeps the lending state of one library: the catalog of books, the set of members
// and the current loans, i.e., which member currently holds which book.
//
// The Tracker is the single source of truth for that state and the sole enforcer of its invariants:
//   - every borrowed book is in the catalog
//   - every borrower is a member
//   - a book is borrowed if and only if it has a loan, otherwise it is available
//   - catalog and members never shrink
//
// Each operation either fully succeeds or fails with one of the typed errors in this package and leaves
// the state unchanged. Mutating operations are serialized, read-only operations may run concurrently.
//
// A Tracker can also be rebuilt from domain events (see Replay and Tracker.Apply), which is how the
// event-sourced command handlers in features/ take their decisions.
// While replaying, a BookBorrowed event registers its borrower as a member even without a MemberAdded event,
// so the members of a replayed Tracker can include people that AddMember was never called for.
// Restore rebuilds a Tracker from a Snapshot, the query side uses it to continue from a stored projection.
package lending

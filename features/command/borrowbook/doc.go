// Package borrowbook implements the Borrow Book use case.
//
// It follows the Query -> Decide -> Append pattern. The rules live in lending.Tracker,
// Decide replays the relevant history into one and asks it.
//
// A refused borrow appends a BorrowingBookFailed event and returns the typed lending error,
// so callers can use errors.As to get e.g. the current borrower from *lending.AlreadyBorrowedError.
package borrowbook

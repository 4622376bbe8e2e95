package core

import (
	"time"
)

// BorrowingBookFailedEventType is the event type identifier.
const BorrowingBookFailedEventType = "BorrowingBookFailed"

// BorrowingBookFailed represents when borrowing a book copy fails due to business rule violations.
type BorrowingBookFailed struct {
	BookID          BookIDString
	MemberFirstName string
	MemberLastName  string
	FailureInfo     string
	OccurredAt      OccurredAtTS
}

// BuildBorrowingBookFailed creates a new BorrowingBookFailed event.
func BuildBorrowingBookFailed(
	bookID BookID,
	member Person,
	failureInfo string,
	occurredAt time.Time,
) BorrowingBookFailed {

	event := BorrowingBookFailed{
		BookID:          bookID.String(),
		MemberFirstName: member.FirstName,
		MemberLastName:  member.LastName,
		FailureInfo:     failureInfo,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e BorrowingBookFailed) EventType() string {
	return BorrowingBookFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BorrowingBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failure condition.
func (e BorrowingBookFailed) IsErrorEvent() bool {
	return true
}

package core

import (
	"time"
)

// BookBorrowedEventType is the event type identifier.
const BookBorrowedEventType = "BookBorrowed"

// BookBorrowed represents when a member borrows a book copy.
type BookBorrowed struct {
	BookID          BookIDString
	MemberFirstName string
	MemberLastName  string
	OccurredAt      OccurredAtTS
}

// BuildBookBorrowed creates a new BookBorrowed event.
func BuildBookBorrowed(bookID BookID, member Person, occurredAt time.Time) BookBorrowed {
	event := BookBorrowed{
		BookID:          bookID.String(),
		MemberFirstName: member.FirstName,
		MemberLastName:  member.LastName,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e BookBorrowed) EventType() string {
	return BookBorrowedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookBorrowed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookBorrowed) IsErrorEvent() bool {
	return false
}

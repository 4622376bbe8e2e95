package core

import (
	"time"
)

// BookReturnedEventType is the event type identifier.
const BookReturnedEventType = "BookReturned"

// BookReturned represents when a borrowed book copy comes back to the library.
type BookReturned struct {
	BookID          BookIDString
	MemberFirstName string
	MemberLastName  string
	OccurredAt      OccurredAtTS
}

// BuildBookReturned creates a new BookReturned event.
func BuildBookReturned(bookID BookID, member Person, occurredAt time.Time) BookReturned {
	event := BookReturned{
		BookID:          bookID.String(),
		MemberFirstName: member.FirstName,
		MemberLastName:  member.LastName,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e BookReturned) EventType() string {
	return BookReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookReturned) IsErrorEvent() bool {
	return false
}

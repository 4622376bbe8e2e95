package core

import (
	"time"
)

// ReturningBookFailedEventType is the event type identifier.
const ReturningBookFailedEventType = "ReturningBookFailed"

// ReturningBookFailed represents when returning a book copy fails due to business rule violations.
type ReturningBookFailed struct {
	BookID      BookIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildReturningBookFailed creates a new ReturningBookFailed event.
func BuildReturningBookFailed(bookID BookID, failureInfo string, occurredAt time.Time) ReturningBookFailed {
	event := ReturningBookFailed{
		BookID:      bookID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e ReturningBookFailed) EventType() string {
	return ReturningBookFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReturningBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failure condition.
func (e ReturningBookFailed) IsErrorEvent() bool {
	return true
}

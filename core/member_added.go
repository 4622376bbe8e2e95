package core

import (
	"time"
)

// MemberAddedEventType is the event type identifier.
const MemberAddedEventType = "MemberAdded"

// MemberAdded represents when a person becomes a member of the library.
type MemberAdded struct {
	MemberFirstName string
	MemberLastName  string
	OccurredAt      OccurredAtTS
}

// BuildMemberAdded creates a new MemberAdded event.
func BuildMemberAdded(member Person, occurredAt time.Time) MemberAdded {
	event := MemberAdded{
		MemberFirstName: member.FirstName,
		MemberLastName:  member.LastName,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e MemberAdded) EventType() string {
	return MemberAddedEventType
}

// HasOccurredAt returns when this event occurred.
func (e MemberAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e MemberAdded) IsErrorEvent() bool {
	return false
}

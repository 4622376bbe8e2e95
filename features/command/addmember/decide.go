package addmember

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// Decide implements the business logic to determine whether a person should become a member.
//
// Business Rules:
//
//	GIVEN: A person with first and last name
//	WHEN: AddMember command is received
//	THEN: MemberAdded event is generated
//	IDEMPOTENCY: If the person is already a member, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	tracker := lending.Replay("", history)

	if tracker.IsMember(command.Member) {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildMemberAdded(command.Member, command.OccurredAt))
}

// BuildEventFilter matches the MemberAdded events of exactly this person.
// Both name predicates must match, a namesake with another last name is somebody else.
func BuildEventFilter(member core.Person) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.MemberAddedEventType).
		AndAllPredicatesOf(
			eventstore.P("MemberFirstName", member.FirstName),
			eventstore.P("MemberLastName", member.LastName),
		).
		Finalize()
}

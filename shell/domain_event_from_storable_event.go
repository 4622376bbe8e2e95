package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

// DomainEventsFrom converts a whole event stream, it fails on the first event which can't be mapped.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to the domain event of its EventType.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.BookAddedToCatalogEventType:
		return unmarshal[core.BookAddedToCatalog](storableEvent.PayloadJSON)

	case core.MemberAddedEventType:
		return unmarshal[core.MemberAdded](storableEvent.PayloadJSON)

	case core.BookBorrowedEventType:
		return unmarshal[core.BookBorrowed](storableEvent.PayloadJSON)

	case core.BookReturnedEventType:
		return unmarshal[core.BookReturned](storableEvent.PayloadJSON)

	case core.BorrowingBookFailedEventType:
		return unmarshal[core.BorrowingBookFailed](storableEvent.PayloadJSON)

	case core.ReturningBookFailedEventType:
		return unmarshal[core.ReturningBookFailed](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

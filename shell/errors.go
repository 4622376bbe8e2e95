package shell

import "errors"

var (
	// ErrMappingToStorableEventFailedForDomainEvent is returned when a domain event can't be serialized.
	ErrMappingToStorableEventFailedForDomainEvent = errors.New("mapping to storable event failed for domain event")

	// ErrMappingToStorableEventFailedForMetadata is returned when event metadata can't be serialized.
	ErrMappingToStorableEventFailedForMetadata = errors.New("mapping to storable event failed for metadata")

	// ErrMappingToDomainEventFailed is returned when a storable event can't be turned into a domain event.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for event types the lending domain doesn't know.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")

	// ErrMappingToEventMetadataFailed is returned when stored metadata can't be decoded.
	ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")
)

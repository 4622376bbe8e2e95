package shell

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

type (
	MessageID     = string
	CausationID   = string
	CorrelationID = string
)

// EventMetadata travels with every appended event.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// BuildInitialEventMetadata is for events which start a new causation chain,
// all three IDs are the same fresh UUID.
func BuildInitialEventMetadata() EventMetadata {
	id := uuid.New()

	return BuildEventMetadata(id, id, id)
}

func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := EventMetadata{}

	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, &metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return metadata, nil
}

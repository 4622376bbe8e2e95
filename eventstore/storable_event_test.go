package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validPayloadJSON := []byte(`{"BookID": "7d8f0c2e-4a61-4c3f-9f8b-0d1f6f1a2b3c"}`)
	validMetadataJSON := []byte(`{"MessageID": "m-1"}`)

	tests := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{name: "invalid payload JSON", payloadJSON: []byte(`{"invalid": json}`), metadataJSON: validMetadataJSON, expectedErr: eventstore.ErrInvalidPayloadJSON},
		{name: "invalid metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: []byte(`{"invalid": json}`), expectedErr: eventstore.ErrInvalidMetadataJSON},
		{name: "empty payload JSON", payloadJSON: []byte(``), metadataJSON: validMetadataJSON, expectedErr: eventstore.ErrInvalidPayloadJSON},
		{name: "empty metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: []byte(``), expectedErr: eventstore.ErrInvalidMetadataJSON},
		{name: "nil payload JSON", payloadJSON: nil, metadataJSON: validMetadataJSON, expectedErr: eventstore.ErrInvalidPayloadJSON},
		{name: "nil metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: nil, expectedErr: eventstore.ErrInvalidMetadataJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eventstore.BuildStorableEvent("BookBorrowed", time.Now(), tt.payloadJSON, tt.metadataJSON)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	occurredAt := time.Now()
	payloadJSON := []byte(`{"BookID": "7d8f0c2e-4a61-4c3f-9f8b-0d1f6f1a2b3c", "MemberFirstName": "Alice"}`)
	metadataJSON := []byte(`{"CorrelationID": "c-789"}`)

	storableEvent, err := eventstore.BuildStorableEvent("BookBorrowed", occurredAt, payloadJSON, metadataJSON)

	require.NoError(t, err)
	assert.Equal(t, "BookBorrowed", storableEvent.EventType)
	assert.Equal(t, occurredAt, storableEvent.OccurredAt)
	assert.Equal(t, payloadJSON, storableEvent.PayloadJSON)
	assert.Equal(t, metadataJSON, storableEvent.MetadataJSON)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata("MemberAdded", time.Now(), []byte(`{"MemberFirstName": "Bob"}`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), storableEvent.MetadataJSON)

	_, err = eventstore.BuildStorableEventWithEmptyMetadata("MemberAdded", time.Now(), []byte(`nope`))
	assert.ErrorIs(t, err, eventstore.ErrInvalidPayloadJSON)
}

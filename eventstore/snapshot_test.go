package eventstore_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

func Test_BuildSnapshot_Success(t *testing.T) {
	snapshot, err := eventstore.BuildSnapshot("LendingStatus", "hash-1", 12, json.RawMessage(`{"Name":"Branch"}`))

	require.NoError(t, err)
	assert.Equal(t, "LendingStatus", snapshot.ProjectionType)
	assert.Equal(t, "hash-1", snapshot.FilterHash)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(12), snapshot.SequenceNumber)
	assert.WithinDuration(t, time.Now(), snapshot.CreatedAt, time.Second)
}

func Test_BuildSnapshot_ErrorCases(t *testing.T) {
	tests := []struct {
		name           string
		projectionType string
		filterHash     string
		data           json.RawMessage
		expectedErr    error
	}{
		{name: "empty projection type", filterHash: "hash-1", data: json.RawMessage(`{}`), expectedErr: eventstore.ErrEmptyProjectionType},
		{name: "empty filter hash", projectionType: "LendingStatus", data: json.RawMessage(`{}`), expectedErr: eventstore.ErrEmptyFilterHash},
		{name: "invalid json", projectionType: "LendingStatus", filterHash: "hash-1", data: json.RawMessage(`{"Name":`), expectedErr: eventstore.ErrInvalidSnapshotJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eventstore.BuildSnapshot(tt.projectionType, tt.filterHash, 1, tt.data)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

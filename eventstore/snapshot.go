package eventstore

import (
	"encoding/json"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidSnapshotJSON is returned when the snapshot data is not valid JSON.
	ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")

	// ErrEmptyProjectionType is returned when a snapshot has no projection type.
	ErrEmptyProjectionType = errors.New("projection type must not be empty")

	// ErrEmptyFilterHash is returned when a snapshot has no filter hash.
	ErrEmptyFilterHash = errors.New("filter hash must not be empty")

	// ErrSavingSnapshotFailed is returned when an engine could not store a snapshot.
	ErrSavingSnapshotFailed = errors.New("saving snapshot failed")

	// ErrLoadingSnapshotFailed is returned when an engine could not read a snapshot.
	ErrLoadingSnapshotFailed = errors.New("loading snapshot failed")
)

// Snapshot is a stored projection together with the sequence number of the last event it includes.
// A projection is identified by its type and the hash of the filter it was built from,
// so a changed filter never picks up a stale snapshot.
type Snapshot struct {
	ProjectionType string
	FilterHash     string
	SequenceNumber MaxSequenceNumberUint
	Data           json.RawMessage
	CreatedAt      time.Time
}

// Validate checks that the snapshot can be stored.
func (s Snapshot) Validate() error {
	if s.ProjectionType == "" {
		return ErrEmptyProjectionType
	}

	if s.FilterHash == "" {
		return ErrEmptyFilterHash
	}

	if !jsoniter.ConfigFastest.Valid(s.Data) {
		return ErrInvalidSnapshotJSON
	}

	return nil
}

// BuildSnapshot creates a validated Snapshot, CreatedAt is now.
func BuildSnapshot(
	projectionType string,
	filterHash string,
	sequenceNumber MaxSequenceNumberUint,
	data json.RawMessage,
) (Snapshot, error) {

	snapshot := Snapshot{
		ProjectionType: projectionType,
		FilterHash:     filterHash,
		SequenceNumber: sequenceNumber,
		Data:           data,
		CreatedAt:      time.Now(),
	}

	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}

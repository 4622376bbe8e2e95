package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict signals that the dynamic event stream changed between Query and Append.
	ErrConcurrencyConflict = errors.New("concurrency conflict, the event stream was changed concurrently")

	ErrEmptyEventsTableName        = errors.New("empty events table name supplied")
	ErrInvalidEventsTableName      = errors.New("invalid events table name supplied")
	ErrNilDatabaseConnection       = errors.New("nil database connection supplied")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrBuildingQueryFailed         = errors.New("building the query failed")
	ErrCreatingSchemaFailed        = errors.New("creating the events schema failed")
)

// MaxSequenceNumberUint is the highest sequence number of a "dynamic event stream" at the time of a Query.
type MaxSequenceNumberUint = uint

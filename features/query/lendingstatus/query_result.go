package lendingstatus

import (
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

// LendingStatus is the catalog, the members, the available books and the loans of the library.
type LendingStatus struct {
	lending.Snapshot
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r LendingStatus) GetSequenceNumber() uint {
	return r.SequenceNumber
}

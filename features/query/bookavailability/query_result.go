package bookavailability

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
)

// BookAvailability tells whether a catalogued book is available.
// Borrower is only set for a book on loan.
type BookAvailability struct {
	Book           core.Book
	Available      bool
	Borrower       *core.Person
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r BookAvailability) GetSequenceNumber() uint {
	return r.SequenceNumber
}

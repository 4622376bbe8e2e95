package lending

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

// Replay builds a Tracker by applying all events of the history in order.
func Replay(name string, history core.DomainEvents) *Tracker {
	t := NewTracker(name)

	for _, event := range history {
		t.Apply(event)
	}

	return t
}

// Restore builds a Tracker from a status snapshot, e.g., one that was stored for a projection.
// Applying the events that are newer than the snapshot yields the same state as replaying the full history.
func Restore(name string, snapshot Snapshot) *Tracker {
	t := NewTracker(name)

	for _, book := range snapshot.Catalog {
		t.addBook(book)
	}

	for _, member := range snapshot.Members {
		t.addMember(member)
	}

	for _, loan := range snapshot.Loans {
		if !t.hasBook(loan.Book.ID) {
			t.addBook(loan.Book)
		}

		t.addMember(loan.Borrower)
		t.loans[loan.Book.ID] = loan.Borrower
	}

	return t
}

// Apply folds one event of the history into the state.
//
// Error events and events with an unparsable BookID don't change anything.
// A BookBorrowed for a borrower without a MemberAdded in the given history registers the borrower,
// since members never leave, whoever borrowed a book is a member.
func (t *Tracker) Apply(event core.DomainEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := event.(type) {
	case core.BookAddedToCatalog:
		id, err := uuid.Parse(e.BookID)
		if err != nil {
			return
		}

		t.addBook(core.BuildBookWithID(id, e.Title, core.BuildPerson(e.AuthorFirstName, e.AuthorLastName)))

	case core.MemberAdded:
		t.addMember(core.BuildPerson(e.MemberFirstName, e.MemberLastName))

	case core.BookBorrowed:
		id, err := uuid.Parse(e.BookID)
		if err != nil || !t.hasBook(id) {
			return
		}

		borrower := core.BuildPerson(e.MemberFirstName, e.MemberLastName)
		t.addMember(borrower)
		t.loans[id] = borrower

	case core.BookReturned:
		id, err := uuid.Parse(e.BookID)
		if err != nil {
			return
		}

		delete(t.loans, id)
	}
}

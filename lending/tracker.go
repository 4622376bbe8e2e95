package lending

import (
	"sync"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

// Tracker owns the catalog, the membership set and the loan mapping of one library.
// The zero value is not usable, create a Tracker with NewTracker or Replay.
type Tracker struct {
	mu sync.RWMutex

	name         string
	catalog      map[core.BookID]core.Book
	catalogOrder []core.BookID
	members      map[core.Person]struct{}
	memberOrder  []core.Person
	loans        map[core.BookID]core.Person
}

// NewTracker creates an empty Tracker for the library with the given name.
func NewTracker(name string) *Tracker {
	return &Tracker{
		name:    name,
		catalog: make(map[core.BookID]core.Book),
		members: make(map[core.Person]struct{}),
		loans:   make(map[core.BookID]core.Person),
	}
}

// Name returns the name of the library.
func (t *Tracker) Name() string {
	return t.name
}

// AddBook inserts the book into the catalog.
// Adding the same book (same BookID) again has no effect.
func (t *Tracker) AddBook(book core.Book) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.addBook(book)
}

// AddMember inserts the person into the membership set.
// Adding the same person again has no effect.
func (t *Tracker) AddMember(person core.Person) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.addMember(person)
}

// IsAvailable reports whether the book is in the catalog and not on loan.
// It fails with *UnknownBookError if the book was never added, it never reports false for such a book.
func (t *Tracker) IsAvailable(book core.Book) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.hasBook(book.ID) {
		return false, &UnknownBookError{Book: book}
	}

	_, onLoan := t.loans[book.ID]

	return !onLoan, nil
}

// BorrowBook lends the book to the person.
//
// Preconditions are checked in this order, the first violation is returned:
//   - the person must be a member, else *NotAMemberError
//   - the book must be in the catalog, else *UnknownBookError
//   - the book must be available, else *AlreadyBorrowedError naming the current borrower
func (t *Tracker) BorrowBook(book core.Book, person core.Person) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkBorrow(book, person); err != nil {
		return err
	}

	t.loans[book.ID] = person

	return nil
}

// ReturnBook ends the loan of the book.
// It fails with *NotBorrowedError if the book is not on loan, including books which are not in the catalog.
func (t *Tracker) ReturnBook(book core.Book) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, onLoan := t.loans[book.ID]; !onLoan {
		return &NotBorrowedError{Book: t.describedBook(book)}
	}

	delete(t.loans, book.ID)

	return nil
}

// Book returns the catalog entry with the given BookID.
func (t *Tracker) Book(id core.BookID) (core.Book, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	book, ok := t.catalog[id]

	return book, ok
}

// IsMember reports whether the person is a member.
func (t *Tracker) IsMember(person core.Person) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.members[person]

	return ok
}

// BorrowerOf returns the current borrower of the book, if it is on loan.
func (t *Tracker) BorrowerOf(book core.Book) (core.Person, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	borrower, ok := t.loans[book.ID]

	return borrower, ok
}

// StatusSnapshot returns a copy of the current state. Available is the catalog minus the books on loan.
func (t *Tracker) StatusSnapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := Snapshot{
		Name:      t.name,
		Catalog:   make([]core.Book, 0, len(t.catalogOrder)),
		Members:   make([]core.Person, 0, len(t.memberOrder)),
		Available: make([]core.Book, 0, len(t.catalogOrder)-len(t.loans)),
		Loans:     make([]Loan, 0, len(t.loans)),
	}

	for _, id := range t.catalogOrder {
		book := t.catalog[id]
		snapshot.Catalog = append(snapshot.Catalog, book)

		if borrower, onLoan := t.loans[id]; onLoan {
			snapshot.Loans = append(snapshot.Loans, Loan{Book: book, Borrower: borrower})
			continue
		}

		snapshot.Available = append(snapshot.Available, book)
	}

	snapshot.Members = append(snapshot.Members, t.memberOrder...)

	return snapshot
}

// checkBorrow must be called with the write lock held.
func (t *Tracker) checkBorrow(book core.Book, person core.Person) error {
	if _, isMember := t.members[person]; !isMember {
		return &NotAMemberError{Person: person}
	}

	if !t.hasBook(book.ID) {
		return &UnknownBookError{Book: book}
	}

	if borrower, onLoan := t.loans[book.ID]; onLoan {
		return &AlreadyBorrowedError{Book: t.catalog[book.ID], Borrower: borrower}
	}

	return nil
}

func (t *Tracker) addBook(book core.Book) {
	if t.hasBook(book.ID) {
		return
	}

	t.catalog[book.ID] = book
	t.catalogOrder = append(t.catalogOrder, book.ID)
}

func (t *Tracker) addMember(person core.Person) {
	if _, ok := t.members[person]; ok {
		return
	}

	t.members[person] = struct{}{}
	t.memberOrder = append(t.memberOrder, person)
}

func (t *Tracker) hasBook(id core.BookID) bool {
	_, ok := t.catalog[id]

	return ok
}

// describedBook prefers the catalog entry so that errors for books known only by ID still read well.
func (t *Tracker) describedBook(book core.Book) core.Book {
	if catalogued, ok := t.catalog[book.ID]; ok {
		return catalogued
	}

	return book
}

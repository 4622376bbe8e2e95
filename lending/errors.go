package lending

import (
	"errors"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

var (
	// ErrUnknownBook is the kind of all UnknownBookError values.
	ErrUnknownBook = errors.New("book doesn't exist in the library")

	// ErrNotAMember is the kind of all NotAMemberError values.
	ErrNotAMember = errors.New("person is not a member of the library")

	// ErrAlreadyBorrowed is the kind of all AlreadyBorrowedError values.
	ErrAlreadyBorrowed = errors.New("book is already borrowed")

	// ErrNotBorrowed is the kind of all NotBorrowedError values.
	ErrNotBorrowed = errors.New("book is not part of the borrowed books")
)

// UnknownBookError reports an operation on a book which is not in the catalog.
type UnknownBookError struct {
	Book core.Book
}

func (e *UnknownBookError) Error() string {
	return describeBook(e.Book) + " doesn't exist in the library"
}

func (e *UnknownBookError) Unwrap() error {
	return ErrUnknownBook
}

// NotAMemberError reports an operation by a person who is not a member.
type NotAMemberError struct {
	Person core.Person
}

func (e *NotAMemberError) Error() string {
	return e.Person.String() + " is not a member of the library"
}

func (e *NotAMemberError) Unwrap() error {
	return ErrNotAMember
}

// AlreadyBorrowedError reports a borrow attempt on a book which is currently on loan.
type AlreadyBorrowedError struct {
	Book     core.Book
	Borrower core.Person
}

func (e *AlreadyBorrowedError) Error() string {
	return describeBook(e.Book) + " is already borrowed by " + e.Borrower.String()
}

func (e *AlreadyBorrowedError) Unwrap() error {
	return ErrAlreadyBorrowed
}

// NotBorrowedError reports a return attempt on a book which is not currently on loan.
type NotBorrowedError struct {
	Book core.Book
}

func (e *NotBorrowedError) Error() string {
	return describeBook(e.Book) + " is not part of the borrowed books"
}

func (e *NotBorrowedError) Unwrap() error {
	return ErrNotBorrowed
}

// describeBook falls back to the BookID for books that are only known by their identity.
func describeBook(book core.Book) string {
	if book.Title == "" {
		return "book " + book.ID.String()
	}

	return book.String()
}

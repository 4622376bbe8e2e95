package lending

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

// Loan assigns a borrowed book to its current borrower.
type Loan struct {
	Book     core.Book
	Borrower core.Person
}

// Snapshot is a read-only copy of the tracker state for display and reporting.
// Catalog, Available and Loans follow catalog insertion order, Members follow membership order.
type Snapshot struct {
	Name      string
	Catalog   []core.Book
	Members   []core.Person
	Available []core.Book
	Loans     []Loan
}

// String renders the snapshot in the same shape as the library status report.
func (s Snapshot) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s status:\n", s.Name)
	fmt.Fprintf(&sb, "Books catalogue: %s\n", joinBooks(s.Catalog))
	fmt.Fprintf(&sb, "Members: %s\n", joinPeople(s.Members))
	fmt.Fprintf(&sb, "Available books: %s\n", joinBooks(s.Available))
	fmt.Fprintf(&sb, "Borrowed books: %s\n", joinLoans(s.Loans))
	sb.WriteString("-----")

	return sb.String()
}

func joinBooks(books []core.Book) string {
	parts := make([]string, 0, len(books))
	for _, book := range books {
		parts = append(parts, book.String())
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func joinPeople(people []core.Person) string {
	parts := make([]string, 0, len(people))
	for _, person := range people {
		parts = append(parts, person.String())
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

func joinLoans(loans []Loan) string {
	parts := make([]string, 0, len(loans))
	for _, loan := range loans {
		parts = append(parts, loan.Book.String()+": "+loan.Borrower.String())
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

package borrowbook

import (
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent of a member to borrow a book.
// Title and author of Book are only used to describe the book in errors, the BookID identifies it.
type Command struct {
	Book       core.Book
	Member     core.Person
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(book core.Book, member core.Person, occurredAt time.Time) Command {
	return Command{
		Book:       book,
		Member:     member,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

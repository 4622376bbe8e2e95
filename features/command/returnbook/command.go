package returnbook

import (
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent to bring a borrowed book back.
type Command struct {
	Book       core.Book
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(book core.Book, occurredAt time.Time) Command {
	return Command{
		Book:       book,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

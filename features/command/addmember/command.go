package addmember

import (
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

const (
	commandType = "AddMember"
)

// Command represents the intent to register a person as a library member.
type Command struct {
	Member     core.Person
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(member core.Person, occurredAt time.Time) Command {
	return Command{
		Member:     member,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

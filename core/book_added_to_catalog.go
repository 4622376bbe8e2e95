package core

import (
	"time"
)

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents when a book copy is registered in the library catalog.
type BookAddedToCatalog struct {
	BookID          BookIDString
	Title           string
	AuthorFirstName string
	AuthorLastName  string
	OccurredAt      OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(book Book, occurredAt time.Time) BookAddedToCatalog {
	event := BookAddedToCatalog{
		BookID:          book.ID.String(),
		Title:           book.Title,
		AuthorFirstName: book.Author.FirstName,
		AuthorLastName:  book.Author.LastName,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// EventType returns the event type identifier.
func (e BookAddedToCatalog) EventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookAddedToCatalog) IsErrorEvent() bool {
	return false
}

package core

import (
	"github.com/google/uuid"
)

// BookID identifies one catalog entry.
type BookID = uuid.UUID

// Book is a catalog entry: a single copy described by a title and an author.
// Identity is the ID, title and author are descriptive only.
type Book struct {
	ID     BookID
	Title  string
	Author Person
}

// BuildBook creates a Book with a fresh BookID.
func BuildBook(title string, author Person) Book {
	return BuildBookWithID(uuid.New(), title, author)
}

// BuildBookWithID creates a Book with a known BookID, e.g., when rebuilding it from events.
func BuildBookWithID(id BookID, title string, author Person) Book {
	return Book{
		ID:     id,
		Title:  title,
		Author: author,
	}
}

// String returns "title (first last)".
func (b Book) String() string {
	return b.Title + " (" + b.Author.String() + ")"
}

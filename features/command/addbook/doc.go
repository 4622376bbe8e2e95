// Package addbook implements the Add Book to Catalog use case.
//
// Each book is one physical copy, identified by its BookID. Two copies with the same title
// and author are added with two commands and become two catalog entries.
// Adding the same BookID twice is idempotent.
package addbook

package bookavailability

import (
	"github.com/AntonStoeckl/lending-tracker-go/core"
)

const (
	queryType = "BookAvailability"
)

// Query asks whether a book can be borrowed right now.
type Query struct {
	Book core.Book
}

func BuildQuery(book core.Book) Query {
	return Query{Book: book}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

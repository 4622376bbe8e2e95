package lendingstatus

const (
	queryType = "LendingStatus"
)

// Query asks for the status of the library with the given name.
type Query struct {
	LibraryName string
}

func BuildQuery(libraryName string) Query {
	return Query{LibraryName: libraryName}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

package adapters

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

// DBAdapter defines the database operations needed by the event store.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// readsFromReplica reports whether a Query may go to the replica.
func readsFromReplica(ctx context.Context, hasReplica bool) bool {
	return hasReplica && eventstore.GetConsistencyLevel(ctx) == eventstore.EventualConsistency
}

// stdRows wraps sql.Rows, which sql.DB and sqlx.DB both return.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

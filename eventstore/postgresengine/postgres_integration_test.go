package postgresengine_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore/postgresengine"
)

const testDatabaseURLEnv = "LENDING_TEST_DATABASE_URL"

func Test_Postgres_QueryAndAppend_WithAllAdapters(t *testing.T) {
	dsn := givenDatabaseURL(t)

	tests := []struct {
		name    string
		factory func(t *testing.T, tableName string) *postgresengine.EventStore
	}{
		{
			name: "pgx pool",
			factory: func(t *testing.T, tableName string) *postgresengine.EventStore {
				pool, err := pgxpool.New(context.Background(), dsn)
				require.NoError(t, err)
				t.Cleanup(pool.Close)

				es, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithTableName(tableName))
				require.NoError(t, err)

				return es
			},
		},
		{
			name: "database/sql with lib/pq",
			factory: func(t *testing.T, tableName string) *postgresengine.EventStore {
				db, err := sql.Open("postgres", dsn)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })

				es, err := postgresengine.NewEventStoreFromSQLDB(db, postgresengine.WithTableName(tableName))
				require.NoError(t, err)

				return es
			},
		},
		{
			name: "sqlx",
			factory: func(t *testing.T, tableName string) *postgresengine.EventStore {
				db, err := sqlx.Connect("postgres", dsn)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })

				es, err := postgresengine.NewEventStoreFromSQLX(db, postgresengine.WithTableName(tableName))
				require.NoError(t, err)

				return es
			},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			tableName := fmt.Sprintf("events_it_%d_%d", time.Now().UnixNano(), i)
			es := tt.factory(t, tableName)
			require.NoError(t, es.CreateSchema(ctx))
			t.Cleanup(func() { givenTableDropped(t, dsn, tableName) })

			filter := eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("BookAddedToCatalog", "BookBorrowed").
				AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
				Finalize()

			_, maxSeq, err := es.Query(ctx, filter)
			require.NoError(t, err)
			require.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)

			// act
			appendErr := es.Append(ctx, filter, maxSeq, givenEvent(t, "BookAddedToCatalog", `{"BookID":"b-1","Title":"Dune"}`))
			conflictErr := es.Append(ctx, filter, maxSeq, givenEvent(t, "BookBorrowed", `{"BookID":"b-1"}`))
			events, newMaxSeq, queryErr := es.Query(ctx, filter)

			// assert
			require.NoError(t, appendErr)
			assert.ErrorIs(t, conflictErr, eventstore.ErrConcurrencyConflict)
			require.NoError(t, queryErr)
			require.Len(t, events, 1)
			assert.Equal(t, "BookAddedToCatalog", events[0].EventType)
			assert.JSONEq(t, `{"BookID":"b-1","Title":"Dune"}`, string(events[0].PayloadJSON))
			assert.Greater(t, newMaxSeq, maxSeq)
		})
	}
}

func Test_Postgres_SaveAndLoadSnapshot(t *testing.T) {
	// arrange
	dsn := givenDatabaseURL(t)
	ctx := context.Background()
	tableName := fmt.Sprintf("events_it_%d", time.Now().UnixNano())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	es, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithTableName(tableName))
	require.NoError(t, err)
	require.NoError(t, es.CreateSchema(ctx))
	t.Cleanup(func() {
		givenTableDropped(t, dsn, tableName+"_snapshots")
		givenTableDropped(t, dsn, tableName)
	})

	filter := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("MemberAdded").Finalize()
	newer, err := eventstore.BuildSnapshot("LendingStatus", filter.Hash(), 5, []byte(`{"Name":"Branch","Members":2}`))
	require.NoError(t, err)
	older, err := eventstore.BuildSnapshot("LendingStatus", filter.Hash(), 3, []byte(`{"Name":"Branch","Members":1}`))
	require.NoError(t, err)

	// act
	missing, missErr := es.LoadSnapshot(ctx, "LendingStatus", filter)
	saveNewerErr := es.SaveSnapshot(ctx, newer)
	saveOlderErr := es.SaveSnapshot(ctx, older)
	loaded, loadErr := es.LoadSnapshot(ctx, "LendingStatus", filter.WithSequenceNumberHigherThan(5))

	// assert
	require.NoError(t, missErr)
	assert.Nil(t, missing)
	require.NoError(t, saveNewerErr)
	require.NoError(t, saveOlderErr)
	require.NoError(t, loadErr)
	require.NotNil(t, loaded)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(5), loaded.SequenceNumber)
	assert.JSONEq(t, `{"Name":"Branch","Members":2}`, string(loaded.Data))
}

func givenDatabaseURL(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDatabaseURLEnv)
	}

	return dsn
}

func givenEvent(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Now(), []byte(payload))
	require.NoError(t, err)

	return event
}

func givenTableDropped(t *testing.T, dsn string, tableName string) {
	t.Helper()

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec("DROP TABLE IF EXISTS " + tableName)
	assert.NoError(t, err)
}

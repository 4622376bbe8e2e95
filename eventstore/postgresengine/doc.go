// Package postgresengine is the PostgreSQL engine of the lending event store.
//
// Events live in one table with a jsonb payload. A Filter is translated with goqu into a WHERE clause,
// payload predicates become jsonb containment checks served by a GIN index. Append runs a single
// INSERT ... SELECT guarded by a CTE which recomputes the max sequence number of the dynamic
// event stream, so optimistic concurrency needs neither locks nor transactions.
// Projection snapshots are upserted into a second table named after the events table plus "_snapshots".
//
// The engine runs on a pgxpool.Pool (optionally with a read replica), a sql.DB or a sqlx.DB:
//
//	pool, _ := pgxpool.NewWithConfig(ctx, cfg)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("lending_events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine

// Package adapters let the Postgres event store run on a pgxpool.Pool, a sql.DB or a sqlx.DB.
//
// Every adapter executes parameterized statements ($1, $2, ...) and routes reads to an optional
// replica when the context asks for eventual consistency.
package adapters

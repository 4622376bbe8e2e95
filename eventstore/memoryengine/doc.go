// Package memoryengine is an in-process event store with the same Query and Append semantics as postgresengine.
//
// It keeps all events in a slice guarded by a mutex. Appends are checked against the
// dynamic event stream defined by the Filter, exactly like the Postgres CTE does it.
// Projection snapshots are kept in a map keyed by projection type and filter hash.
// The demo uses it by default and the feature tests run against it.
package memoryengine

// Package snapshot keeps projections as snapshots in the event store, so a query only reads
// the events appended since its last run.
//
// The QueryWrapper loads the snapshot of a projection, queries the newer events, folds them onto
// the restored projection and saves the result as the next snapshot. On a snapshot miss it runs
// the wrapped handler once and saves its result as the first snapshot.
//
//	coreHandler := lendingstatus.NewQueryHandler(eventStore)
//
//	handler, err := snapshot.NewQueryWrapper[lendingstatus.Query, lendingstatus.LendingStatus](
//		coreHandler,
//		eventStore,
//		lendingstatus.ProjectOnto,
//		lendingstatus.FilterFor,
//	)
//
// Snapshots are keyed by the query type and the hash of the filter, see eventstore.Filter.Hash.
package snapshot

package lendingstatus

import (
	"github.com/AntonStoeckl/lending-tracker-go/shell/snapshot"
)

// NewSnapshotQueryHandler serves the LendingStatus from a stored snapshot plus the newer events,
// instead of replaying the whole history on every call.
func NewSnapshotQueryHandler(
	eventStore snapshot.QueriesEventsAndHandlesSnapshots,
) (*snapshot.QueryWrapper[Query, LendingStatus], error) {

	return snapshot.NewQueryWrapper[Query, LendingStatus](
		NewQueryHandler(eventStore),
		eventStore,
		ProjectOnto,
		FilterFor,
	)
}

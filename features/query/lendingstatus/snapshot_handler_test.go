package lendingstatus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/addbook"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/addmember"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/borrowbook"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/returnbook"
	"github.com/AntonStoeckl/lending-tracker-go/features/query/lendingstatus"
	"github.com/AntonStoeckl/lending-tracker-go/testutil/fixtures"
)

func Test_SnapshotQueryHandler_SnapshotPlusNewerEvents_EqualsFullReplay(t *testing.T) {
	// setup
	ctx := context.Background()
	handlers, store := createAllHandlers(t)
	snapshotHandler, err := lendingstatus.NewSnapshotQueryHandler(store)
	require.NoError(t, err)
	query := lendingstatus.BuildQuery("Public library")
	rugby, novel := fixtures.RugbyBook(), fixtures.NovelBook()
	antoine, julia := fixtures.Antoine(), fixtures.Julia()

	// arrange
	must(t)(handlers.addBook.Handle(ctx, addbook.BuildCommand(rugby, fixtures.FakeClock)))
	must(t)(handlers.addMember.Handle(ctx, addmember.BuildCommand(antoine, fixtures.FakeClock)))
	must(t)(handlers.borrowBook.Handle(ctx, borrowbook.BuildCommand(rugby, antoine, fixtures.FakeClock.Add(time.Hour))))

	first, err := snapshotHandler.Handle(ctx, query)
	require.NoError(t, err)
	assertStoredSnapshotAt(t, store, 3)

	must(t)(handlers.addBook.Handle(ctx, addbook.BuildCommand(novel, fixtures.FakeClock)))
	must(t)(handlers.addMember.Handle(ctx, addmember.BuildCommand(julia, fixtures.FakeClock)))
	must(t)(handlers.returnBook.Handle(ctx, returnbook.BuildCommand(rugby, fixtures.FakeClock.Add(2*time.Hour))))
	must(t)(handlers.borrowBook.Handle(ctx, borrowbook.BuildCommand(rugby, julia, fixtures.FakeClock.Add(3*time.Hour))))

	// act
	result, err := snapshotHandler.Handle(ctx, query)

	// assert
	require.NoError(t, err)
	fullReplay, replayErr := handlers.query.Handle(ctx, query)
	require.NoError(t, replayErr)

	assert.Equal(t, uint(3), first.GetSequenceNumber())
	assert.Equal(t, fullReplay, result)
	assert.Equal(t, uint(7), result.GetSequenceNumber())
	assert.Equal(t, []core.Person{antoine, julia}, result.Members)
	assert.Equal(t, []core.Book{novel}, result.Available)
	assertStoredSnapshotAt(t, store, 7)
}

func Test_SnapshotQueryHandler_WithoutNewerEvents_ReturnsTheStoredProjection(t *testing.T) {
	// setup
	ctx := context.Background()
	handlers, store := createAllHandlers(t)
	snapshotHandler, err := lendingstatus.NewSnapshotQueryHandler(store)
	require.NoError(t, err)
	query := lendingstatus.BuildQuery("Public library")

	// arrange
	must(t)(handlers.addBook.Handle(ctx, addbook.BuildCommand(fixtures.NovelBook(), fixtures.FakeClock)))
	must(t)(handlers.addMember.Handle(ctx, addmember.BuildCommand(fixtures.Julia(), fixtures.FakeClock)))

	first, err := snapshotHandler.Handle(ctx, query)
	require.NoError(t, err)

	// act
	second, err := snapshotHandler.Handle(ctx, query)

	// assert
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assertStoredSnapshotAt(t, store, 2)
}

func Test_ProjectOnto_EqualsProjectOfTheFullHistory(t *testing.T) {
	rugby, novel := fixtures.RugbyBook(), fixtures.NovelBook()
	antoine, julia := fixtures.Antoine(), fixtures.Julia()
	query := lendingstatus.BuildQuery("Branch")
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(rugby, fixtures.FakeClock),
		core.BuildMemberAdded(antoine, fixtures.FakeClock),
		core.BuildBookBorrowed(rugby.ID, antoine, fixtures.FakeClock),
		core.BuildBookAddedToCatalog(novel, fixtures.FakeClock),
		core.BuildBookBorrowed(novel.ID, julia, fixtures.FakeClock),
		core.BuildBookReturned(rugby.ID, antoine, fixtures.FakeClock),
	}
	expected := lendingstatus.Project(history, query, uint(len(history)))

	for split := 0; split <= len(history); split++ {
		base := lendingstatus.Project(history[:split], query, uint(split))

		result := lendingstatus.ProjectOnto(base, history[split:], query, uint(len(history)))

		assert.Equal(t, expected, result, "split at %d", split)
	}
}

func assertStoredSnapshotAt(t *testing.T, store *memoryengine.EventStore, sequenceNumber uint) {
	t.Helper()

	snapshot, err := store.LoadSnapshot(context.Background(), "LendingStatus", lendingstatus.BuildEventFilter())
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, sequenceNumber, snapshot.SequenceNumber)
}

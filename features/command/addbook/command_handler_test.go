package addbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/lending-tracker-go/features/command/addbook"
	"github.com/AntonStoeckl/lending-tracker-go/testutil/fixtures"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	handler := addbook.NewCommandHandler(store)
	book := fixtures.RugbyBook()

	// act
	result, err := handler.Handle(ctx, addbook.BuildCommand(book, fixtures.FakeClock))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)

	events, maxSeq, err := store.Query(ctx, addbook.BuildEventFilter(book.ID))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.BookAddedToCatalogEventType, events[0].EventType)
	assert.Equal(t, uint(1), maxSeq)
}

func Test_CommandHandler_Handle_Idempotent_WhenAddedTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	handler := addbook.NewCommandHandler(store)
	command := addbook.BuildCommand(fixtures.NovelBook(), fixtures.FakeClock)

	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, store.Len())
}

func Test_CommandHandler_Handle_FailsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handler := addbook.NewCommandHandler(memoryengine.NewEventStore())

	result, err := handler.Handle(ctx, addbook.BuildCommand(fixtures.RugbyBook(), fixtures.FakeClock))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, result.Idempotent)
}

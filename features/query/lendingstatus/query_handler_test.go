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
	"github.com/AntonStoeckl/lending-tracker-go/lending"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
	"github.com/AntonStoeckl/lending-tracker-go/testutil/fixtures"
)

type testHandlers struct {
	addBook    addbook.CommandHandler
	addMember  addmember.CommandHandler
	borrowBook borrowbook.CommandHandler
	returnBook returnbook.CommandHandler
	query      lendingstatus.QueryHandler
}

func Test_QueryHandler_Handle_EmptyLibrary(t *testing.T) {
	// setup
	handlers, _ := createAllHandlers(t)

	// act
	result, err := handlers.query.Handle(context.Background(), lendingstatus.BuildQuery("Public library"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Public library", result.Name)
	assert.Empty(t, result.Catalog)
	assert.Empty(t, result.Members)
	assert.Empty(t, result.Loans)
	assert.Equal(t, uint(0), result.GetSequenceNumber())
}

func Test_QueryHandler_Handle_ReflectsLoansAndReturns(t *testing.T) {
	// setup
	ctx := context.Background()
	handlers, store := createAllHandlers(t)
	rugby, novel := fixtures.RugbyBook(), fixtures.NovelBook()
	antoine, julia := fixtures.Antoine(), fixtures.Julia()

	// arrange
	must(t)(handlers.addBook.Handle(ctx, addbook.BuildCommand(rugby, fixtures.FakeClock)))
	must(t)(handlers.addBook.Handle(ctx, addbook.BuildCommand(novel, fixtures.FakeClock)))
	must(t)(handlers.addMember.Handle(ctx, addmember.BuildCommand(antoine, fixtures.FakeClock)))
	must(t)(handlers.addMember.Handle(ctx, addmember.BuildCommand(julia, fixtures.FakeClock)))
	must(t)(handlers.borrowBook.Handle(ctx, borrowbook.BuildCommand(rugby, antoine, fixtures.FakeClock.Add(time.Hour))))

	_, err := handlers.borrowBook.Handle(ctx, borrowbook.BuildCommand(rugby, julia, fixtures.FakeClock.Add(2*time.Hour)))
	require.ErrorIs(t, err, lending.ErrAlreadyBorrowed)

	must(t)(handlers.returnBook.Handle(ctx, returnbook.BuildCommand(rugby, fixtures.FakeClock.Add(3*time.Hour))))
	must(t)(handlers.borrowBook.Handle(ctx, borrowbook.BuildCommand(novel, julia, fixtures.FakeClock.Add(4*time.Hour))))

	// act
	result, err := handlers.query.Handle(ctx, lendingstatus.BuildQuery("Public library"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []core.Book{rugby, novel}, result.Catalog)
	assert.Equal(t, []core.Person{antoine, julia}, result.Members)
	assert.Equal(t, []core.Book{rugby}, result.Available)
	assert.Equal(t, []lending.Loan{{Book: novel, Borrower: julia}}, result.Loans)
	assert.Equal(t, 8, store.Len())
	assert.Equal(t, uint(8), result.GetSequenceNumber())
	assert.Contains(t, result.String(), "Borrowed books: {Vingt mille lieues sous les mers (Jules Verne): Julia Roberts}")
}

func Test_Project_IgnoresFailureEvents(t *testing.T) {
	book, antoine := fixtures.RugbyBook(), fixtures.Antoine()
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(book, fixtures.FakeClock),
		core.BuildBorrowingBookFailed(book.ID, antoine, "not a member", fixtures.FakeClock),
		core.BuildReturningBookFailed(book.ID, "not borrowed", fixtures.FakeClock),
	}

	result := lendingstatus.Project(history, lendingstatus.BuildQuery("Branch"), 7)

	assert.Equal(t, []core.Book{book}, result.Available)
	assert.Empty(t, result.Members)
	assert.Equal(t, uint(7), result.SequenceNumber)
}

func createAllHandlers(t *testing.T) (testHandlers, *memoryengine.EventStore) {
	t.Helper()

	store := memoryengine.NewEventStore()

	return testHandlers{
		addBook:    addbook.NewCommandHandler(store),
		addMember:  addmember.NewCommandHandler(store),
		borrowBook: borrowbook.NewCommandHandler(store),
		returnBook: returnbook.NewCommandHandler(store),
		query:      lendingstatus.NewQueryHandler(store),
	}, store
}

func must(t *testing.T) func(shell.HandlerResult, error) {
	t.Helper()

	return func(_ shell.HandlerResult, err error) {
		t.Helper()
		require.NoError(t, err)
	}
}

package lending_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

func Test_Replay_BuildsStateFromHistory(t *testing.T) {
	// arrange
	now := time.Now()
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(dune, now),
		core.BuildMemberAdded(alice, now),
		core.BuildBookBorrowed(dune.ID, alice, now),
	}

	// act
	tracker := lending.Replay("Public library", history)

	// assert
	assert.Equal(t, "Public library", tracker.Name())
	assert.True(t, tracker.IsMember(alice))
	assertAvailable(t, tracker, dune, false)
	borrower, onLoan := tracker.BorrowerOf(dune)
	assert.True(t, onLoan)
	assert.Equal(t, alice, borrower)

	catalogued, ok := tracker.Book(dune.ID)
	require.True(t, ok)
	assert.Equal(t, dune, catalogued)
}

func Test_Replay_ReturnEndsTheLoan(t *testing.T) {
	// arrange
	now := time.Now()
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(dune, now),
		core.BuildMemberAdded(alice, now),
		core.BuildBookBorrowed(dune.ID, alice, now),
		core.BuildBookReturned(dune.ID, alice, now),
	}

	// act
	tracker := lending.Replay("Public library", history)

	// assert
	assertAvailable(t, tracker, dune, true)
}

func Test_Replay_IgnoresErrorEvents(t *testing.T) {
	// arrange
	now := time.Now()
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(dune, now),
		core.BuildBorrowingBookFailed(dune.ID, alice, "Alice Liddell is not a member of the library", now),
		core.BuildReturningBookFailed(dune.ID, "Dune is not part of the borrowed books", now),
	}

	// act
	tracker := lending.Replay("Public library", history)

	// assert
	assert.False(t, tracker.IsMember(alice))
	assertAvailable(t, tracker, dune, true)
}

func Test_Replay_BorrowerWithoutMemberAddedInHistory_BecomesMember(t *testing.T) {
	// arrange
	now := time.Now()
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(dune, now),
		core.BuildBookBorrowed(dune.ID, alice, now),
	}

	// act
	tracker := lending.Replay("Public library", history)

	// assert
	assert.True(t, tracker.IsMember(alice))
	snapshot := tracker.StatusSnapshot()
	assert.Equal(t, []lending.Loan{{Book: dune, Borrower: alice}}, snapshot.Loans)
}

func Test_Replay_BorrowOfUncataloguedBook_IsIgnored(t *testing.T) {
	// arrange
	now := time.Now()
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")

	// act
	tracker := lending.Replay("Public library", core.DomainEvents{core.BuildBookBorrowed(dune.ID, alice, now)})

	// assert
	assert.Empty(t, tracker.StatusSnapshot().Loans)
	assert.False(t, tracker.IsMember(alice))
}

func Test_Replay_ThenOperate(t *testing.T) {
	// arrange
	now := time.Now()
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	bob := core.BuildPerson("Bob", "Dylan")
	tracker := lending.Replay("Public library", core.DomainEvents{
		core.BuildBookAddedToCatalog(dune, now),
		core.BuildMemberAdded(alice, now),
		core.BuildMemberAdded(bob, now),
		core.BuildBookBorrowed(dune.ID, alice, now),
	})

	// act
	err := tracker.BorrowBook(dune, bob)

	// assert
	var alreadyBorrowed *lending.AlreadyBorrowedError
	require.ErrorAs(t, err, &alreadyBorrowed)
	assert.Equal(t, alice, alreadyBorrowed.Borrower)
	assert.Equal(t, "Dune (Frank Herbert) is already borrowed by Alice Liddell", err.Error())
}

func Test_Restore_ThenApplyNewerEvents_EqualsFullReplay(t *testing.T) {
	// arrange
	now := time.Now()
	dune, mobyDick := givenBook("Dune"), givenBook("Moby Dick")
	alice, bob := core.BuildPerson("Alice", "Liddell"), core.BuildPerson("Bob", "Dylan")
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(dune, now),
		core.BuildMemberAdded(alice, now),
		core.BuildBookAddedToCatalog(mobyDick, now),
		core.BuildBookBorrowed(dune.ID, alice, now),
		core.BuildBorrowingBookFailed(dune.ID, bob, "not a member", now),
		core.BuildMemberAdded(bob, now),
		core.BuildBookBorrowed(mobyDick.ID, bob, now),
		core.BuildBookReturned(dune.ID, alice, now),
		core.BuildBookBorrowed(dune.ID, bob, now),
	}
	expected := lending.Replay("Public library", history).StatusSnapshot()

	for split := 0; split <= len(history); split++ {
		// act
		snapshot := lending.Replay("Public library", history[:split]).StatusSnapshot()
		tracker := lending.Restore("Public library", snapshot)
		for _, event := range history[split:] {
			tracker.Apply(event)
		}

		// assert
		assert.Equal(t, expected, tracker.StatusSnapshot(), "split after %d events", split)
	}
}

func Test_Restore_KeepsOrderAndLoans(t *testing.T) {
	dune, mobyDick := givenBook("Dune"), givenBook("Moby Dick")
	alice := core.BuildPerson("Alice", "Liddell")
	snapshot := lending.Snapshot{
		Catalog: []core.Book{mobyDick, dune},
		Members: []core.Person{alice},
		Loans:   []lending.Loan{{Book: dune, Borrower: alice}},
	}

	tracker := lending.Restore("Branch", snapshot)

	restored := tracker.StatusSnapshot()
	assert.Equal(t, "Branch", restored.Name)
	assert.Equal(t, []core.Book{mobyDick, dune}, restored.Catalog)
	assert.Equal(t, []core.Book{mobyDick}, restored.Available)
	assert.Equal(t, []lending.Loan{{Book: dune, Borrower: alice}}, restored.Loans)
	require.ErrorIs(t, tracker.BorrowBook(dune, alice), lending.ErrAlreadyBorrowed)
}

package lending_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/lending"
)

func Test_Tracker_Scenario_FromEmptyLibrary(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	dune := givenBook("Dune")
	mobyDick := givenBook("Moby Dick")
	alice := core.BuildPerson("Alice", "Liddell")
	bob := core.BuildPerson("Bob", "Dylan")

	// 1. a registered book is available
	tracker.AddBook(dune)
	tracker.AddMember(alice)
	tracker.AddMember(bob)
	assertAvailable(t, tracker, dune, true)

	// 2. borrowing makes it unavailable
	require.NoError(t, tracker.BorrowBook(dune, alice))
	assertAvailable(t, tracker, dune, false)

	// 3. another member can't borrow it, the error names the borrower
	err := tracker.BorrowBook(dune, bob)
	var alreadyBorrowed *lending.AlreadyBorrowedError
	require.ErrorAs(t, err, &alreadyBorrowed)
	assert.Equal(t, alice, alreadyBorrowed.Borrower)
	assert.ErrorIs(t, err, lending.ErrAlreadyBorrowed)
	assert.ErrorContains(t, err, "Alice Liddell")

	// 4. returning makes it available again
	require.NoError(t, tracker.ReturnBook(dune))
	assertAvailable(t, tracker, dune, true)

	// 5. returning twice fails
	err = tracker.ReturnBook(dune)
	var notBorrowed *lending.NotBorrowedError
	assert.ErrorAs(t, err, &notBorrowed)
	assert.ErrorIs(t, err, lending.ErrNotBorrowed)

	// 6. a book which was never added can't be borrowed
	err = tracker.BorrowBook(mobyDick, alice)
	var unknownBook *lending.UnknownBookError
	assert.ErrorAs(t, err, &unknownBook)
	assert.ErrorIs(t, err, lending.ErrUnknownBook)
}

func Test_Tracker_AddBook_IsIdempotent(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	dune := givenBook("Dune")

	// act
	tracker.AddBook(dune)
	tracker.AddBook(dune)

	// assert
	snapshot := tracker.StatusSnapshot()
	assert.Equal(t, []core.Book{dune}, snapshot.Catalog)
	assertAvailable(t, tracker, dune, true)
}

func Test_Tracker_AddBook_IsIdempotent_WhileBorrowed(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	tracker.AddBook(dune)
	tracker.AddMember(alice)
	require.NoError(t, tracker.BorrowBook(dune, alice))

	// act
	tracker.AddBook(dune)

	// assert
	assertAvailable(t, tracker, dune, false)
	assert.Len(t, tracker.StatusSnapshot().Catalog, 1)
}

func Test_Tracker_AddMember_IsIdempotent(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")

	// act
	tracker.AddMember(core.BuildPerson("Alice", "Liddell"))
	tracker.AddMember(core.BuildPerson("Alice", "Liddell"))

	// assert
	assert.Equal(t, []core.Person{core.BuildPerson("Alice", "Liddell")}, tracker.StatusSnapshot().Members)
}

func Test_Tracker_CopiesWithSameTitleAndAuthor_AreDistinct(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	author := core.BuildPerson("Frank", "Herbert")
	firstCopy := core.BuildBook("Dune", author)
	secondCopy := core.BuildBook("Dune", author)
	alice := core.BuildPerson("Alice", "Liddell")
	bob := core.BuildPerson("Bob", "Dylan")
	tracker.AddBook(firstCopy)
	tracker.AddBook(secondCopy)
	tracker.AddMember(alice)
	tracker.AddMember(bob)

	// act
	errAlice := tracker.BorrowBook(firstCopy, alice)
	errBob := tracker.BorrowBook(secondCopy, bob)

	// assert
	assert.NoError(t, errAlice)
	assert.NoError(t, errBob)
	assert.Len(t, tracker.StatusSnapshot().Loans, 2)
}

func Test_Tracker_IsAvailable_UnknownBook_FailsInsteadOfFalse(t *testing.T) {
	tracker := lending.NewTracker("Public library")

	available, err := tracker.IsAvailable(givenBook("Moby Dick"))

	assert.False(t, available)
	assert.ErrorIs(t, err, lending.ErrUnknownBook)
}

func Test_Tracker_BorrowBook_PreconditionOrder(t *testing.T) {
	alice := core.BuildPerson("Alice", "Liddell")
	stranger := core.BuildPerson("Simone", "Veil")
	dune := givenBook("Dune")
	unregistered := givenBook("Roméo et Juliette")

	testCases := []struct {
		name        string
		book        core.Book
		person      core.Person
		borrowFirst bool
		expectedErr error
	}{
		{
			name:        "non member borrowing an unregistered book fails as not a member",
			book:        unregistered,
			person:      stranger,
			expectedErr: lending.ErrNotAMember,
		},
		{
			name:        "non member borrowing a borrowed book fails as not a member",
			book:        dune,
			person:      stranger,
			borrowFirst: true,
			expectedErr: lending.ErrNotAMember,
		},
		{
			name:        "member borrowing an unregistered book fails as unknown book",
			book:        unregistered,
			person:      alice,
			expectedErr: lending.ErrUnknownBook,
		},
		{
			name:        "member borrowing a borrowed book fails as already borrowed",
			book:        dune,
			person:      alice,
			borrowFirst: true,
			expectedErr: lending.ErrAlreadyBorrowed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			tracker := lending.NewTracker("Public library")
			tracker.AddBook(dune)
			tracker.AddMember(alice)
			if tc.borrowFirst {
				require.NoError(t, tracker.BorrowBook(dune, alice))
			}
			before := tracker.StatusSnapshot()

			// act
			err := tracker.BorrowBook(tc.book, tc.person)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, before, tracker.StatusSnapshot(), "a failed borrow must not change the state")
		})
	}
}

func Test_Tracker_ReturnBook_NotBorrowed_EvenIfCatalogued(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	dune := givenBook("Dune")
	tracker.AddBook(dune)

	// act
	err := tracker.ReturnBook(dune)

	// assert
	assert.ErrorIs(t, err, lending.ErrNotBorrowed)
	assert.False(t, errors.Is(err, lending.ErrUnknownBook))
	assert.ErrorContains(t, err, "Dune (Frank Herbert) is not part of the borrowed books")
}

func Test_Tracker_ReturnBook_UnknownBook_FailsAsNotBorrowed(t *testing.T) {
	tracker := lending.NewTracker("Public library")

	err := tracker.ReturnBook(givenBook("Moby Dick"))

	assert.ErrorIs(t, err, lending.ErrNotBorrowed)
}

func Test_Tracker_BorrowAndReturn_RoundTripsRepeatedly(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	dune := givenBook("Dune")
	alice := core.BuildPerson("Alice", "Liddell")
	tracker.AddBook(dune)
	tracker.AddMember(alice)

	for i := 0; i < 5; i++ {
		// act
		require.NoError(t, tracker.BorrowBook(dune, alice))
		require.NoError(t, tracker.ReturnBook(dune))

		// assert
		assertAvailable(t, tracker, dune, true)
		_, onLoan := tracker.BorrowerOf(dune)
		assert.False(t, onLoan)
	}
}

func Test_Tracker_StatusSnapshot_ComputesAvailableAndLoans(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	rugby := core.BuildBook("Jouer au rugby pour les nuls", core.BuildPerson("Louis", "BB"))
	novel := core.BuildBook("Vingt mille lieues sous les mers", core.BuildPerson("Jules", "Verne"))
	antoine := core.BuildPerson("Antoine", "Dupont")
	julia := core.BuildPerson("Julia", "Roberts")
	tracker.AddBook(rugby)
	tracker.AddBook(novel)
	tracker.AddMember(antoine)
	tracker.AddMember(julia)
	require.NoError(t, tracker.BorrowBook(rugby, antoine))

	// act
	snapshot := tracker.StatusSnapshot()

	// assert
	assert.Equal(t, "Public library", snapshot.Name)
	assert.Equal(t, []core.Book{rugby, novel}, snapshot.Catalog)
	assert.Equal(t, []core.Person{antoine, julia}, snapshot.Members)
	assert.Equal(t, []core.Book{novel}, snapshot.Available)
	assert.Equal(t, []lending.Loan{{Book: rugby, Borrower: antoine}}, snapshot.Loans)
	assert.Equal(t,
		"Public library status:\n"+
			"Books catalogue: [Jouer au rugby pour les nuls (Louis BB), Vingt mille lieues sous les mers (Jules Verne)]\n"+
			"Members: {Antoine Dupont, Julia Roberts}\n"+
			"Available books: [Vingt mille lieues sous les mers (Jules Verne)]\n"+
			"Borrowed books: {Jouer au rugby pour les nuls (Louis BB): Antoine Dupont}\n"+
			"-----",
		snapshot.String(),
	)
}

func Test_Tracker_StatusSnapshot_IsACopy(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	tracker.AddBook(givenBook("Dune"))
	snapshot := tracker.StatusSnapshot()

	// act
	tracker.AddBook(givenBook("Moby Dick"))

	// assert
	assert.Len(t, snapshot.Catalog, 1)
}

func Test_Tracker_ConcurrentBorrowers_OnlyOneWins(t *testing.T) {
	// arrange
	tracker := lending.NewTracker("Public library")
	dune := givenBook("Dune")
	tracker.AddBook(dune)

	const borrowers = 32
	people := make([]core.Person, borrowers)
	for i := range people {
		people[i] = core.BuildPerson("Reader", string(rune('A'+i)))
		tracker.AddMember(people[i])
	}

	var wg sync.WaitGroup
	var successes atomic.Int32
	var alreadyBorrowed atomic.Int32

	// act
	for _, person := range people {
		wg.Add(1)
		go func(p core.Person) {
			defer wg.Done()

			err := tracker.BorrowBook(dune, p)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, lending.ErrAlreadyBorrowed):
				alreadyBorrowed.Add(1)
			}

			_, _ = tracker.IsAvailable(dune)
			_ = tracker.StatusSnapshot()
		}(person)
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(borrowers-1), alreadyBorrowed.Load())
	assert.Len(t, tracker.StatusSnapshot().Loans, 1)
}

func givenBook(title string) core.Book {
	return core.BuildBook(title, core.BuildPerson("Frank", "Herbert"))
}

func assertAvailable(t *testing.T, tracker *lending.Tracker, book core.Book, expected bool) {
	t.Helper()

	available, err := tracker.IsAvailable(book)
	assert.NoError(t, err)
	assert.Equal(t, expected, available)
}

package fixtures

import (
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/core"
)

// FakeClock is the start of all test timelines.
var FakeClock = time.Unix(0, 0).UTC()

func Antoine() core.Person {
	return core.BuildPerson("Antoine", "Dupont")
}

func Julia() core.Person {
	return core.BuildPerson("Julia", "Roberts")
}

// Simone never becomes a member.
func Simone() core.Person {
	return core.BuildPerson("Simone", "Veil")
}

func RugbyBook() core.Book {
	return core.BuildBook("Jouer au rugby pour les nuls", core.BuildPerson("Louis", "BB"))
}

func NovelBook() core.Book {
	return core.BuildBook("Vingt mille lieues sous les mers", core.BuildPerson("Jules", "Verne"))
}

// UncataloguedBook is never added to the catalog.
func UncataloguedBook() core.Book {
	return core.BuildBook("Roméo et Juliette", core.BuildPerson("William", "Shakespeare"))
}

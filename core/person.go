package core

// Person is a library member or a book author.
// Two Person values with equal names are equal.
type Person struct {
	FirstName string
	LastName  string
}

// BuildPerson creates a Person.
func BuildPerson(firstName string, lastName string) Person {
	return Person{
		FirstName: firstName,
		LastName:  lastName,
	}
}

// String returns "first last".
func (p Person) String() string {
	return p.FirstName + " " + p.LastName
}

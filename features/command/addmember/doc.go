// Package addmember implements the Add Member use case.
//
// Membership is by value: a person is identified by first and last name, and members never leave.
package addmember

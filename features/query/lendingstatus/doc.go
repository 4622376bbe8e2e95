// Package lendingstatus provides the status report of the library: the books catalogue,
// the members, the available books and the borrowed books with their borrowers.
//
// The result embeds lending.Snapshot, so result.String() prints the report.
package lendingstatus

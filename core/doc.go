// Package core contains the domain values and domain events for
// book lending in a public library.
//
// People and books are plain, immutable values. A Book carries a surrogate BookID
// which is assigned once when the book is built, so two copies with the same title
// and author stay distinguishable in the catalog and in the loan mapping.
//
// Domain events represent meaningful business occurrences like BookAddedToCatalog
// and BookBorrowed. All of them implement the DomainEvent interface.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core

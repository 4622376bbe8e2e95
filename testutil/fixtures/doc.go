// Package fixtures provides the people, books and clock used across the lending tests.
//
// The people and books are those of the library demonstration in cmd/lendingdemo.
// Books get a fresh BookID on every call, so two calls return two distinct catalog entries.
package fixtures

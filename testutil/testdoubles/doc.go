// Package testdoubles provides spies for the observability interfaces of the event store and the shell.
// They record calls for later inspection and are safe for concurrent use.
package testdoubles

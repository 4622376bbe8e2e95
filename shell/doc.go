// Package shell is the imperative shell around the lending core.
//
// It translates between domain events and storable events, carries event metadata,
// retries commands on concurrency conflicts and holds the contracts and observability
// helpers shared by the command and query handlers in features/.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell

// Package mocks provides centralized test doubles for the store and
// identity-provider interfaces.
//
// The in-memory stores are full substitutable implementations, not stubs:
// they honor the same uniqueness, ownership-conjunction, and not-found
// semantics as the PostgreSQL stores, so service and handler tests exercise
// the real contracts without a database. Function fields allow individual
// methods to be overridden for failure injection.
package mocks

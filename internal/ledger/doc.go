// Package ledger persists run history in SQLite.
//
// The Store manages the database connection, schema initialization, and the
// queries backing the history command. Each completed run records its inputs
// (source, destination, seed, requested count) and outcome tallies, plus one
// row per record-level failure so partial runs stay auditable after the
// console output is gone.
//
// The ledger is advisory: callers treat write failures as warnings, never as
// run failures. Schema changes bump the version in schema.go; users delete
// the database to adopt the new schema.
package ledger

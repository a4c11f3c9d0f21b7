// Package library persists albums and their classification state in SQLite.
//
// The Store owns the schema, the busy-retry policy, and every transition of
// classification fields. Classification writes go through
// ApplyClassification, which re-checks the manual-override lock inside the
// same transaction so an override that lands while automated analysis is in
// flight always wins.
//
// Treat this package as the single source of truth for album lifecycle
// semantics; new states or classification fields belong in models.go and
// schema.go together.
package library

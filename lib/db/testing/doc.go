// Package testing provides a standardised conformance suite for typed stores.
//
// The suite checks the store contract that the registry and the persistence engine
// rely on: set/get semantics, dirty tracking, renames, value lookups and the
// flatten/rebuild round trip (including flattening an empty store).
//
// Example usage:
//
//	dbtesting.RunTypedStoreTests(t, "int", func() *typed.Store[int] {
//		return typed.New[int]()
//	}, [3]int{1, 2, 3})
package testing

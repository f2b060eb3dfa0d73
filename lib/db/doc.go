// Package db defines the vocabulary shared by every typed store: the closed set of
// supported value types and the type-erased IData interface the registry dispatches to.
//
// The package focuses on:
//   - A closed, explicit set of value types identified by TypeID
//   - A compile-time constraint (Value) for generic code over that set
//   - A type-erased store contract (IData) for callers that only know the type at runtime
//
// Key Components:
//
//   - TypeID: An enumeration of the supported value types (string, bool, int, float64,
//     Vector2, Vector3). TypeInvalid is never backed by a store and is what callers get
//     when a type cannot be resolved. ParseTypeID and ParseValue convert command line
//     input into TypeIDs and values.
//
//   - Value: The type-set constraint used by the generic typed store and the generic
//     facade functions. Because the set is closed, type dispatch is a plain type switch
//     (TypeOf / TypeOfValue) and never needs reflection.
//
//   - IData: The runtime view of a typed store. All "Any" methods accept or return
//     values boxed in interfaces. Values of a foreign type never match a query and
//     SetAny rejects them with *ErrTypeMismatch.
//
// Related Packages:
//
// The typed package (github.com/ValentinKolb/localdata/lib/db/typed) provides the generic
// Store[T] that implements IData for every member of Value.
//
// The testing package (github.com/ValentinKolb/localdata/lib/db/testing) provides a
// conformance suite that every Store[T] instantiation is run against.
package db

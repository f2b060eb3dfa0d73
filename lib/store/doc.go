// Package store aggregates the typed stores into a Registry, the single object the
// facade mutates and the persistence engine flattens and rebuilds.
//
// The package focuses on:
//   - Exactly one typed store per supported value type for the registry's lifetime
//   - Dispatch by db.TypeID with a resilient contract for unsupported types
//   - The Snapshot document and its validation
//   - Unified error reporting through typed return codes
//
// Key Components:
//
//   - Registry: Holds the six typed stores as fields (for static access and for
//     StoreOf[T]) and in a TypeID keyed map (for runtime dispatch). Aggregate dirty
//     state is the OR of the stores' flags. The forwarding operations (ContainsKey,
//     RenameKey, RemoveKeysByValue, ...) never abort the caller: an unsupported
//     TypeID is logged as an UnsupportedType condition and answered with a neutral
//     value (false, nil, 0, or the unchanged key). Set is the exception and returns
//     the error, since dropping a write silently would lose data.
//
//   - Snapshot: The document written to disk: the EnableEncryption and AutoSave flags
//     plus one Section (keys, values) per type. Validate rejects sections whose
//     sequences differ in length. Registry.Rebuild validates the whole snapshot before
//     touching any store, so a malformed document never leaves the registry half loaded.
//
//   - Error System: A structured error type with RetCode values (UnsupportedType,
//     MalformedSnapshot, DecryptFailure, TypeMismatch, InternalError). IsCode checks a
//     (possibly wrapped) error for a specific code.
//
// Thread Safety:
//
//	The registry performs no locking. It has a single owner (the facade and the
//	persistence engine working on the caller's goroutine).
package store

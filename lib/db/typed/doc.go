// Package typed implements Store[T], a single-type key-value container with dirty
// tracking and flatten/rebuild serialization. It is the building block the registry
// holds one instance of per supported value type.
//
// Key Features:
//   - Generic over the closed db.Value type set; implements db.IData for every member
//   - Insertion ordered iteration (keys, values, value lookups)
//   - Dirty tracking: set exactly when the effective mapping changes, cleared by Flatten
//   - Flatten/Rebuild to and from two parallel sequences (keys, values)
//
// Dirty Semantics:
//
//	Insert, update to a different value, remove and rename mark the store dirty.
//	Setting a key to the value it already holds is a no-op: it neither marks the store
//	dirty nor moves the key in the iteration order. Flatten always produces fresh
//	sequences, also for an empty store, and clears the flag. Rebuild never touches it,
//	so a store rebuilt from freshly loaded data is as clean as it was before.
//
// Rename Semantics:
//
//	RenameKey onto a key that already exists overwrites that key's value (the same
//	outcome as Set). Renaming a missing key returns the old key unchanged.
//
// Thread Safety:
//
//	Stores are not safe for concurrent use. They are owned by a single registry which
//	in turn is owned by a single caller.
//
// Usage Example:
//
//	ints := typed.New[int]()
//	ints.Set("score", 10)
//	keys, values := ints.Flatten() // ints.IsDirty() == false
//	_ = ints.Rebuild(keys, values)
package typed

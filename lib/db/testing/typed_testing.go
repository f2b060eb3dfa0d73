package testing

import (
	"fmt"
	"slices"
	"testing"

	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/db/typed"
)

// StoreFactory is a function that creates a new, empty typed store
type StoreFactory[T db.Value] func() *typed.Store[T]

// RunTypedStoreTests runs the conformance suite against a typed store.
// samples[0] and samples[1] must differ. samples[2] should differ from both,
// types with only two values (bool) skip the checks that need a third one.
func RunTypedStoreTests[T db.Value](t *testing.T, name string, factory StoreFactory[T], samples [3]T) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(), samples)
		})

		t.Run("IdempotentSet", func(t *testing.T) {
			testIdempotentSet(t, factory(), samples)
		})

		t.Run("RenameKey", func(t *testing.T) {
			testRenameKey(t, factory(), samples)
		})

		t.Run("RenameKeyOverwrite", func(t *testing.T) {
			testRenameKeyOverwrite(t, factory(), samples)
		})

		t.Run("FindByValue", func(t *testing.T) {
			testFindByValue(t, factory(), samples)
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory(), samples)
		})

		t.Run("FlattenRebuild", func(t *testing.T) {
			testFlattenRebuild(t, factory, samples)
		})

		t.Run("FlattenEmpty", func(t *testing.T) {
			testFlattenEmpty(t, factory(), samples)
		})

		t.Run("RebuildMismatch", func(t *testing.T) {
			testRebuildMismatch(t, factory(), samples)
		})

		t.Run("TypeErased", func(t *testing.T) {
			testTypeErased(t, factory(), samples)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// requireClean flattens the store so the test starts from dirty=false
func requireClean[T db.Value](t testing.TB, store *typed.Store[T]) {
	store.Flatten()
	if store.IsDirty() {
		t.Fatalf("Expected store to be clean after Flatten")
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	if store.IsDirty() {
		t.Errorf("Expected a new store to be clean")
	}

	if got := store.Get("missing", s[2]); got != s[2] {
		t.Errorf("Expected default %v for missing key, got %v", s[2], got)
	}

	if got := store.Set("key", s[0]); got != s[0] {
		t.Errorf("Expected Set to return %v, got %v", s[0], got)
	}
	if !store.IsDirty() {
		t.Errorf("Expected store to be dirty after inserting a key")
	}
	if got := store.Get("key", s[2]); got != s[0] {
		t.Errorf("Expected value %v, got %v", s[0], got)
	}

	requireClean(t, store)

	store.Set("key", s[1])
	if !store.IsDirty() {
		t.Errorf("Expected store to be dirty after updating a key to a different value")
	}
	if got := store.Get("key", s[2]); got != s[1] {
		t.Errorf("Expected updated value %v, got %v", s[1], got)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 key, got %d", store.Len())
	}

	if v, ok := store.TryGet("key"); !ok || v != s[1] {
		t.Errorf("Expected TryGet to return (%v, true), got (%v, %v)", s[1], v, ok)
	}
	if _, ok := store.TryGet("missing"); ok {
		t.Errorf("Expected TryGet on a missing key to return false")
	}
}

func testIdempotentSet[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("a", s[0])
	store.Set("b", s[1])
	requireClean(t, store)

	if got := store.Set("a", s[0]); got != s[0] {
		t.Errorf("Expected Set to return the stored value %v, got %v", s[0], got)
	}
	if store.IsDirty() {
		t.Errorf("Setting a key to its current value must not mark the store dirty")
	}
	if keys := store.Keys(); !slices.Equal(keys, []string{"a", "b"}) {
		t.Errorf("Setting a key to its current value must not reorder keys, got %v", keys)
	}
}

func testRenameKey[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("old", s[0])
	requireClean(t, store)

	if got := store.RenameKey("missing", "other"); got != "missing" {
		t.Errorf("Expected rename of a missing key to return the old key, got %q", got)
	}
	if store.IsDirty() {
		t.Errorf("Renaming a missing key must not mark the store dirty")
	}

	if got := store.RenameKey("old", "new"); got != "new" {
		t.Errorf("Expected rename to return the new key, got %q", got)
	}
	if store.ContainsKey("old") {
		t.Errorf("Expected old key to be gone after rename")
	}
	if got := store.Get("new", s[2]); got != s[0] {
		t.Errorf("Expected renamed key to hold %v, got %v", s[0], got)
	}
	if !store.IsDirty() {
		t.Errorf("Expected store to be dirty after rename")
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 key after rename, got %d", store.Len())
	}
}

func testRenameKeyOverwrite[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("a", s[0])
	store.Set("b", s[1])
	store.Set("c", s[2])

	if got := store.RenameKey("a", "b"); got != "b" {
		t.Errorf("Expected rename to return the new key, got %q", got)
	}
	if got := store.Get("b", s[2]); got != s[0] {
		t.Errorf("Expected rename onto an existing key to overwrite it with %v, got %v", s[0], got)
	}
	if keys := store.Keys(); !slices.Equal(keys, []string{"b", "c"}) {
		t.Errorf("Expected keys [b c] after overwriting rename, got %v", keys)
	}
}

func testFindByValue[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("first", s[0])
	store.Set("other", s[1])
	store.Set("second", s[0])

	if key, ok := store.KeyOf(s[0]); !ok || key != "first" {
		t.Errorf("Expected first key holding %v to be \"first\", got (%q, %v)", s[0], key, ok)
	}
	if keys := store.KeysOf(s[0]); !slices.Equal(keys, []string{"first", "second"}) {
		t.Errorf("Expected keys [first second] for %v, got %v", s[0], keys)
	}
	if !store.Contains(s[1]) {
		t.Errorf("Expected Contains(%v) to be true", s[1])
	}

	if s[2] == s[0] || s[2] == s[1] {
		return
	}
	if _, ok := store.KeyOf(s[2]); ok {
		t.Errorf("Expected KeyOf to report not found for %v", s[2])
	}
	if keys := store.KeysOf(s[2]); len(keys) != 0 {
		t.Errorf("Expected no keys for %v, got %v", s[2], keys)
	}
	if store.Contains(s[2]) {
		t.Errorf("Expected Contains(%v) to be false", s[2])
	}
}

func testRemove[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("a", s[0])
	store.Set("b", s[1])
	store.Set("c", s[2])
	requireClean(t, store)

	if store.RemoveKey("missing") {
		t.Errorf("Expected RemoveKey on a missing key to return false")
	}
	if store.IsDirty() {
		t.Errorf("Removing a missing key must not mark the store dirty")
	}

	if !store.RemoveKey("a") {
		t.Errorf("Expected RemoveKey to return true")
	}
	if !store.IsDirty() {
		t.Errorf("Expected store to be dirty after removal")
	}

	store.RemoveKeys([]string{"missing", "b", "c"})
	if store.Len() != 0 {
		t.Errorf("Expected RemoveKeys to continue past missing keys, %d keys left", store.Len())
	}

	store.Set("d", s[0])
	requireClean(t, store)
	store.DeleteAll()
	if store.Len() != 0 || !store.IsDirty() {
		t.Errorf("Expected DeleteAll to clear the store and mark it dirty")
	}
}

func testFlattenRebuild[T db.Value](t *testing.T, factory StoreFactory[T], s [3]T) {
	store := factory()
	store2 := factory()

	numEntries := 100
	for i := 0; i < numEntries; i++ {
		store.Set(fmt.Sprintf("flatten-test-key-%d", i), s[i%3])
	}

	keys, values := store.Flatten()
	if store.IsDirty() {
		t.Errorf("Expected Flatten to clear the dirty flag")
	}
	if len(keys) != numEntries || len(values) != numEntries {
		t.Fatalf("Expected %d flattened pairs, got %d keys and %d values", numEntries, len(keys), len(values))
	}

	if err := store2.Rebuild(keys, values); err != nil {
		t.Fatalf("Unexpected error during Rebuild: %v", err)
	}
	if store2.IsDirty() {
		t.Errorf("Expected a freshly rebuilt store to be clean")
	}
	if store2.Len() != numEntries {
		t.Errorf("Expected %d keys after Rebuild, got %d", numEntries, store2.Len())
	}
	for i := 0; i < numEntries; i++ {
		key := fmt.Sprintf("flatten-test-key-%d", i)
		v, ok := store2.TryGet(key)
		if !ok {
			t.Errorf("Key %s not found after Rebuild", key)
			continue
		}
		if v != s[i%3] {
			t.Errorf("Value mismatch for key %s: expected %v, got %v", key, s[i%3], v)
		}
	}
}

func testFlattenEmpty[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("a", s[0])
	store.Set("b", s[1])
	if keys, _ := store.Flatten(); len(keys) != 2 {
		t.Fatalf("Expected 2 flattened keys, got %d", len(keys))
	}

	store.DeleteAll()
	keys, values := store.Flatten()
	if keys == nil || values == nil {
		t.Errorf("Expected empty (non-nil) sequences when flattening an empty store")
	}
	if len(keys) != 0 || len(values) != 0 {
		t.Errorf("Flattening an empty store returned stale data: %v / %v", keys, values)
	}
	if store.IsDirty() {
		t.Errorf("Expected Flatten of an empty store to clear the dirty flag")
	}
}

func testRebuildMismatch[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	store.Set("keep", s[0])

	err := store.Rebuild([]string{"a", "b"}, []T{s[1]})
	if err != typed.ErrLengthMismatch {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
	if got := store.Get("keep", s[2]); got != s[0] || store.Len() != 1 {
		t.Errorf("Expected a failed Rebuild to leave the store untouched")
	}
}

func testTypeErased[T db.Value](t *testing.T, store *typed.Store[T], s [3]T) {
	var data db.IData = store

	if data.Type() != db.TypeOf[T]() {
		t.Errorf("Expected type %s, got %s", db.TypeOf[T](), data.Type())
	}

	if _, err := data.SetAny("key", s[0]); err != nil {
		t.Fatalf("Unexpected error from SetAny: %v", err)
	}
	if got := data.GetAny("key", nil); got != any(s[0]) {
		t.Errorf("Expected GetAny to return %v, got %v", s[0], got)
	}
	if got := data.GetAny("missing", nil); got != nil {
		t.Errorf("Expected GetAny to return the default for a missing key, got %v", got)
	}

	// a value of a foreign type is rejected and never matches
	var foreign any = struct{}{}
	if _, err := data.SetAny("key", foreign); err == nil {
		t.Errorf("Expected SetAny with a foreign type to fail")
	}
	if data.ContainsAny(foreign) {
		t.Errorf("Expected ContainsAny with a foreign type to be false")
	}
	if _, ok := data.KeyOfAny(foreign); ok {
		t.Errorf("Expected KeyOfAny with a foreign type to report not found")
	}
	if keys := data.KeysOfAny(foreign); len(keys) != 0 {
		t.Errorf("Expected KeysOfAny with a foreign type to be empty, got %v", keys)
	}

	if key, ok := data.KeyOfAny(s[0]); !ok || key != "key" {
		t.Errorf("Expected KeyOfAny to find \"key\", got (%q, %v)", key, ok)
	}
	if values := data.AnyValues(); len(values) != 1 || values[0] != any(s[0]) {
		t.Errorf("Expected AnyValues [%v], got %v", s[0], values)
	}
}

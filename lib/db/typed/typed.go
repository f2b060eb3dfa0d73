package typed

import (
	"errors"
	"slices"

	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("store")

// ErrLengthMismatch is returned by Rebuild when the key and value sequences differ in length.
var ErrLengthMismatch = errors.New("keys and values differ in length")

// --------------------------------------------------------------------------
// Core Store structure
// --------------------------------------------------------------------------

// Store maps string keys to values of a single type T and tracks whether it
// changed since the last Flatten.
//
// Iteration order is insertion order. Updating a key in place keeps its position.
//
// Thread-safety: A Store is not safe for concurrent use. Callers must serialize access.
type Store[T db.Value] struct {
	id     db.TypeID
	values map[string]T
	order  []string // keys in insertion order
	dirty  bool
}

// New creates an empty, clean store for T.
func New[T db.Value]() *Store[T] {
	return &Store[T]{
		id:     db.TypeOf[T](),
		values: make(map[string]T),
	}
}

// Type returns the TypeID of T.
func (s *Store[T]) Type() db.TypeID { return s.id }

// Len returns the number of keys.
func (s *Store[T]) Len() int { return len(s.order) }

// IsDirty reports whether the mapping changed since the last Flatten.
func (s *Store[T]) IsDirty() bool { return s.dirty }

// MarkDirty sets the dirty flag without changing the mapping.
func (s *Store[T]) MarkDirty() { s.dirty = true }

// --------------------------------------------------------------------------
// Query Operations
// --------------------------------------------------------------------------

// Get returns the value for key or def if the key is absent.
func (s *Store[T]) Get(key string, def T) T {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// TryGet returns the value for key and whether it was present.
func (s *Store[T]) TryGet(key string) (T, bool) {
	v, ok := s.values[key]
	return v, ok
}

// ContainsKey reports whether key exists.
func (s *Store[T]) ContainsKey(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Contains reports whether any key holds value. O(n).
func (s *Store[T]) Contains(value T) bool {
	_, ok := s.KeyOf(value)
	return ok
}

// KeyOf returns the first key in iteration order whose value equals value. O(n).
func (s *Store[T]) KeyOf(value T) (string, bool) {
	for _, k := range s.order {
		if db.Equal(s.values[k], value) {
			return k, true
		}
	}
	return "", false
}

// KeysOf returns every key whose value equals value, in iteration order. O(n).
func (s *Store[T]) KeysOf(value T) []string {
	keys := make([]string, 0)
	for _, k := range s.order {
		if db.Equal(s.values[k], value) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Keys returns a copy of all keys in iteration order.
func (s *Store[T]) Keys() []string {
	return slices.Clone(s.order)
}

// Values returns all values in iteration order.
func (s *Store[T]) Values() []T {
	out := make([]T, len(s.order))
	for i, k := range s.order {
		out[i] = s.values[k]
	}
	return out
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Set associates value with key and returns the value now stored under key.
// Setting a key to the value it already holds changes nothing, including the dirty flag.
func (s *Store[T]) Set(key string, value T) T {
	if old, ok := s.values[key]; ok {
		if db.Equal(old, value) {
			return old
		}
	} else {
		s.order = append(s.order, key)
	}
	s.values[key] = value
	s.dirty = true
	plog.Debugf("set %s [%q = %v]", s.id, key, value)
	return value
}

// RenameKey moves the value stored under oldKey to newKey and returns newKey.
// A missing oldKey is a no-op that returns oldKey. An existing newKey is overwritten
// in place; otherwise newKey is appended to the iteration order.
func (s *Store[T]) RenameKey(oldKey, newKey string) string {
	value, ok := s.values[oldKey]
	if !ok {
		return oldKey
	}
	if oldKey == newKey {
		return newKey
	}
	s.removeFromOrder(oldKey)
	delete(s.values, oldKey)
	if _, exists := s.values[newKey]; !exists {
		s.order = append(s.order, newKey)
	}
	s.values[newKey] = value
	s.dirty = true
	plog.Debugf("rename %s [%q -> %q]", s.id, oldKey, newKey)
	return newKey
}

// RemoveKey removes key and reports whether it was present.
// The store is only marked dirty if something was removed.
func (s *Store[T]) RemoveKey(key string) bool {
	if _, ok := s.values[key]; !ok {
		return false
	}
	delete(s.values, key)
	s.removeFromOrder(key)
	s.dirty = true
	plog.Debugf("remove %s [%q]", s.id, key)
	return true
}

// RemoveKeys removes every given key. Missing keys are skipped.
func (s *Store[T]) RemoveKeys(keys []string) {
	for _, k := range keys {
		s.RemoveKey(k)
	}
}

// DeleteAll clears the mapping and marks the store dirty.
func (s *Store[T]) DeleteAll() {
	clear(s.values)
	s.order = s.order[:0]
	s.dirty = true
}

func (s *Store[T]) removeFromOrder(key string) {
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// Flatten returns the mapping as two parallel sequences and clears the dirty flag.
// An empty store flattens to two empty (non-nil) sequences.
func (s *Store[T]) Flatten() (keys []string, values []T) {
	keys = s.Keys()
	values = s.Values()
	s.dirty = false
	return keys, values
}

// Rebuild replaces the mapping with the given pairs, inserted in order.
// Later duplicates of a key overwrite earlier ones. The dirty flag is left untouched.
// On ErrLengthMismatch the store is not modified.
func (s *Store[T]) Rebuild(keys []string, values []T) error {
	if len(keys) != len(values) {
		return ErrLengthMismatch
	}
	clear(s.values)
	s.order = s.order[:0]
	for i, k := range keys {
		if _, ok := s.values[k]; !ok {
			s.order = append(s.order, k)
		}
		s.values[k] = values[i]
	}
	return nil
}

// --------------------------------------------------------------------------
// Type-erased Interface Methods (docu see db.IData)
// --------------------------------------------------------------------------

func (s *Store[T]) GetAny(key string, def any) any {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

func (s *Store[T]) SetAny(key string, value any) (any, error) {
	v, ok := value.(T)
	if !ok {
		return nil, &db.ErrTypeMismatch{Want: s.id, Got: value}
	}
	return s.Set(key, v), nil
}

func (s *Store[T]) ContainsAny(value any) bool {
	v, ok := value.(T)
	return ok && s.Contains(v)
}

func (s *Store[T]) KeyOfAny(value any) (string, bool) {
	v, ok := value.(T)
	if !ok {
		return "", false
	}
	return s.KeyOf(v)
}

func (s *Store[T]) KeysOfAny(value any) []string {
	v, ok := value.(T)
	if !ok {
		return []string{}
	}
	return s.KeysOf(v)
}

func (s *Store[T]) AnyValues() []any {
	out := make([]any, len(s.order))
	for i, k := range s.order {
		out[i] = s.values[k]
	}
	return out
}

// Compile-time assertion that Store implements db.IData for every supported type.
var (
	_ db.IData = (*Store[string])(nil)
	_ db.IData = (*Store[bool])(nil)
	_ db.IData = (*Store[int])(nil)
	_ db.IData = (*Store[float64])(nil)
	_ db.IData = (*Store[db.Vector2])(nil)
	_ db.IData = (*Store[db.Vector3])(nil)
)

package store

import (
	"fmt"

	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/db/typed"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("store")

// Registry owns exactly one typed store per supported value type and is the unit
// that is flattened into and rebuilt from a Snapshot.
//
// Thread-safety: A Registry is not safe for concurrent use.
type Registry struct {
	// EnableEncryption and AutoSave are the document flags persisted alongside the data.
	EnableEncryption bool
	AutoSave         bool

	Strings *typed.Store[string]
	Bools   *typed.Store[bool]
	Ints    *typed.Store[int]
	Floats  *typed.Store[float64]
	Vector2 *typed.Store[db.Vector2]
	Vector3 *typed.Store[db.Vector3]

	stores map[db.TypeID]db.IData
}

// NewRegistry creates a registry with one empty, clean store per supported type.
func NewRegistry() *Registry {
	r := &Registry{
		EnableEncryption: true,
		AutoSave:         true,
		Strings:          typed.New[string](),
		Bools:            typed.New[bool](),
		Ints:             typed.New[int](),
		Floats:           typed.New[float64](),
		Vector2:          typed.New[db.Vector2](),
		Vector3:          typed.New[db.Vector3](),
	}
	r.stores = map[db.TypeID]db.IData{
		db.TypeString:  r.Strings,
		db.TypeBool:    r.Bools,
		db.TypeInt:     r.Ints,
		db.TypeFloat:   r.Floats,
		db.TypeVector2: r.Vector2,
		db.TypeVector3: r.Vector3,
	}
	return r
}

// --------------------------------------------------------------------------
// Dispatch
// --------------------------------------------------------------------------

// Dispatch returns the store for id or a RetCUnsupportedType error.
func (r *Registry) Dispatch(id db.TypeID) (db.IData, error) {
	if data, ok := r.stores[id]; ok {
		return data, nil
	}
	return nil, NewError(RetCUnsupportedType, fmt.Sprintf("type %s is not supported", id))
}

// StoreOf returns the typed store for T.
func StoreOf[T db.Value](r *Registry) *typed.Store[T] {
	// the Value constraint and NewRegistry cover the same closed set, so this cannot fail
	data, _ := r.Dispatch(db.TypeOf[T]())
	return data.(*typed.Store[T])
}

// Stores returns every store in db.SupportedTypes order.
func (r *Registry) Stores() []db.IData {
	out := make([]db.IData, 0, len(db.SupportedTypes))
	for _, id := range db.SupportedTypes {
		out = append(out, r.stores[id])
	}
	return out
}

// lookup dispatches id and logs an UnsupportedType condition for op if it fails.
func (r *Registry) lookup(op string, id db.TypeID) (db.IData, bool) {
	data, err := r.Dispatch(id)
	if err != nil {
		plog.Errorf("%s: %v", op, err)
		return nil, false
	}
	return data, true
}

// --------------------------------------------------------------------------
// Aggregate Operations
// --------------------------------------------------------------------------

// IsDirty reports whether any store changed since the last Flatten.
func (r *Registry) IsDirty() bool {
	for _, data := range r.stores {
		if data.IsDirty() {
			return true
		}
	}
	return false
}

// MarkDirty flags every store as changed.
func (r *Registry) MarkDirty() {
	for _, data := range r.stores {
		data.MarkDirty()
	}
}

// DeleteAll clears every store and marks all of them dirty.
func (r *Registry) DeleteAll() {
	for _, data := range r.stores {
		data.DeleteAll()
	}
}

// HasKey reports whether any store contains key.
func (r *Registry) HasKey(key string) bool {
	for _, data := range r.Stores() {
		if data.ContainsKey(key) {
			return true
		}
	}
	return false
}

// DeleteKey removes key from the first store (in db.SupportedTypes order) that holds it.
func (r *Registry) DeleteKey(key string) bool {
	for _, data := range r.Stores() {
		if data.RemoveKey(key) {
			return true
		}
	}
	return false
}

// RenameKeyAll renames oldKey to newKey in every store that holds it and returns newKey.
func (r *Registry) RenameKeyAll(oldKey, newKey string) string {
	for _, data := range r.Stores() {
		data.RenameKey(oldKey, newKey)
	}
	return newKey
}

// --------------------------------------------------------------------------
// Forwarding Operations
//
// These forward to the store dispatched by id. An unsupported id is logged and
// answered with a neutral value.
// --------------------------------------------------------------------------

// Get returns the value of key in store id, def if absent, nil if id is unsupported.
func (r *Registry) Get(id db.TypeID, key string, def any) any {
	data, ok := r.lookup("Get", id)
	if !ok {
		return nil
	}
	return data.GetAny(key, def)
}

// Set stores value under key in store id. Unlike the other forwarding operations it
// returns an error, since silently dropping a write would lose data.
func (r *Registry) Set(id db.TypeID, key string, value any) (any, error) {
	data, err := r.Dispatch(id)
	if err != nil {
		plog.Errorf("Set: %v", err)
		return nil, err
	}
	v, err := data.SetAny(key, value)
	if err != nil {
		return nil, NewError(RetCTypeMismatch, err.Error())
	}
	return v, nil
}

func (r *Registry) ContainsKey(id db.TypeID, key string) bool {
	data, ok := r.lookup("ContainsKey", id)
	return ok && data.ContainsKey(key)
}

func (r *Registry) ContainsValue(id db.TypeID, value any) bool {
	data, ok := r.lookup("ContainsValue", id)
	return ok && data.ContainsAny(value)
}

// RenameKey returns oldKey unchanged if id is unsupported.
func (r *Registry) RenameKey(id db.TypeID, oldKey, newKey string) string {
	data, ok := r.lookup("RenameKey", id)
	if !ok {
		return oldKey
	}
	return data.RenameKey(oldKey, newKey)
}

// RenameKeyByValue renames the first key holding value. It returns the new key,
// or "" and false if no key holds value or id is unsupported.
func (r *Registry) RenameKeyByValue(id db.TypeID, value any, newKey string) (string, bool) {
	data, ok := r.lookup("RenameKeyByValue", id)
	if !ok {
		return "", false
	}
	key, found := data.KeyOfAny(value)
	if !found {
		return "", false
	}
	return data.RenameKey(key, newKey), true
}

func (r *Registry) FirstKeyForValue(id db.TypeID, value any) (string, bool) {
	data, ok := r.lookup("FirstKeyForValue", id)
	if !ok {
		return "", false
	}
	return data.KeyOfAny(value)
}

func (r *Registry) AllKeysForValue(id db.TypeID, value any) []string {
	data, ok := r.lookup("AllKeysForValue", id)
	if !ok {
		return []string{}
	}
	return data.KeysOfAny(value)
}

func (r *Registry) RemoveKey(id db.TypeID, key string) bool {
	data, ok := r.lookup("RemoveKey", id)
	return ok && data.RemoveKey(key)
}

func (r *Registry) RemoveKeys(id db.TypeID, keys []string) {
	if data, ok := r.lookup("RemoveKeys", id); ok {
		data.RemoveKeys(keys)
	}
}

// RemoveKeyByValue removes the first key holding value and reports whether one was found.
func (r *Registry) RemoveKeyByValue(id db.TypeID, value any) bool {
	data, ok := r.lookup("RemoveKeyByValue", id)
	if !ok {
		return false
	}
	key, found := data.KeyOfAny(value)
	if !found {
		return false
	}
	return data.RemoveKey(key)
}

// RemoveKeysByValue removes every key holding value and reports whether at least one was found.
func (r *Registry) RemoveKeysByValue(id db.TypeID, value any) bool {
	data, ok := r.lookup("RemoveKeysByValue", id)
	if !ok {
		return false
	}
	keys := data.KeysOfAny(value)
	data.RemoveKeys(keys)
	return len(keys) > 0
}

// DeleteAllOf clears the store id.
func (r *Registry) DeleteAllOf(id db.TypeID) {
	if data, ok := r.lookup("DeleteAllOf", id); ok {
		data.DeleteAll()
	}
}

func (r *Registry) KeyCount(id db.TypeID) int {
	data, ok := r.lookup("KeyCount", id)
	if !ok {
		return 0
	}
	return data.Len()
}

// AllKeys returns nil if id is unsupported.
func (r *Registry) AllKeys(id db.TypeID) []string {
	data, ok := r.lookup("AllKeys", id)
	if !ok {
		return nil
	}
	return data.Keys()
}

// AllValues returns nil if id is unsupported.
func (r *Registry) AllValues(id db.TypeID) []any {
	data, ok := r.lookup("AllValues", id)
	if !ok {
		return nil
	}
	return data.AnyValues()
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// Flatten produces a Snapshot of every store and clears all dirty flags.
func (r *Registry) Flatten() *Snapshot {
	s := &Snapshot{
		EnableEncryption: r.EnableEncryption,
		AutoSave:         r.AutoSave,
	}
	s.Strings.Keys, s.Strings.Values = r.Strings.Flatten()
	s.Bools.Keys, s.Bools.Values = r.Bools.Flatten()
	s.Ints.Keys, s.Ints.Values = r.Ints.Flatten()
	s.Floats.Keys, s.Floats.Values = r.Floats.Flatten()
	s.Vector2.Keys, s.Vector2.Values = r.Vector2.Flatten()
	s.Vector3.Keys, s.Vector3.Values = r.Vector3.Flatten()
	return s
}

// Rebuild replaces the content of every store with the snapshot's sections and
// adopts its AutoSave flag. The snapshot is validated first, so a
// RetCMalformedSnapshot error leaves the registry untouched. Dirty flags are not changed.
func (r *Registry) Rebuild(s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	rebuilds := []error{
		r.Strings.Rebuild(s.Strings.Keys, s.Strings.Values),
		r.Bools.Rebuild(s.Bools.Keys, s.Bools.Values),
		r.Ints.Rebuild(s.Ints.Keys, s.Ints.Values),
		r.Floats.Rebuild(s.Floats.Keys, s.Floats.Values),
		r.Vector2.Rebuild(s.Vector2.Keys, s.Vector2.Values),
		r.Vector3.Rebuild(s.Vector3.Keys, s.Vector3.Values),
	}
	for _, err := range rebuilds {
		if err != nil {
			return NewError(RetCMalformedSnapshot, err.Error())
		}
	}
	r.AutoSave = s.AutoSave
	return nil
}

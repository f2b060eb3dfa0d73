package localdata

import "github.com/ValentinKolb/localdata/lib/db"

// --------------------------------------------------------------------------
// Operations keyed by a runtime TypeID (docu see store.Registry)
// --------------------------------------------------------------------------

func (l *LocalData) Get(id db.TypeID, key string, def any) any {
	return l.registry.Get(id, key, def)
}

func (l *LocalData) Set(id db.TypeID, key string, value any) (any, error) {
	return l.registry.Set(id, key, value)
}

// SetParsed parses text as a value of type id and stores it under key.
func (l *LocalData) SetParsed(id db.TypeID, key, text string) (any, error) {
	value, err := db.ParseValue(id, text)
	if err != nil {
		return nil, err
	}
	return l.registry.Set(id, key, value)
}

func (l *LocalData) ContainsKey(id db.TypeID, key string) bool {
	return l.registry.ContainsKey(id, key)
}

func (l *LocalData) ContainsValue(id db.TypeID, value any) bool {
	return l.registry.ContainsValue(id, value)
}

func (l *LocalData) RenameKey(id db.TypeID, oldKey, newKey string) string {
	return l.registry.RenameKey(id, oldKey, newKey)
}

func (l *LocalData) RenameKeyByValue(id db.TypeID, value any, newKey string) (string, bool) {
	return l.registry.RenameKeyByValue(id, value, newKey)
}

func (l *LocalData) FirstKeyForValue(id db.TypeID, value any) (string, bool) {
	return l.registry.FirstKeyForValue(id, value)
}

func (l *LocalData) AllKeysForValue(id db.TypeID, value any) []string {
	return l.registry.AllKeysForValue(id, value)
}

func (l *LocalData) RemoveKey(id db.TypeID, key string) bool {
	return l.registry.RemoveKey(id, key)
}

func (l *LocalData) RemoveKeys(id db.TypeID, keys ...string) {
	l.registry.RemoveKeys(id, keys)
}

func (l *LocalData) RemoveKeyByValue(id db.TypeID, value any) bool {
	return l.registry.RemoveKeyByValue(id, value)
}

func (l *LocalData) RemoveKeysByValue(id db.TypeID, value any) bool {
	return l.registry.RemoveKeysByValue(id, value)
}

func (l *LocalData) DeleteAllOf(id db.TypeID) {
	l.registry.DeleteAllOf(id)
}

func (l *LocalData) KeyCount(id db.TypeID) int {
	return l.registry.KeyCount(id)
}

func (l *LocalData) AllKeys(id db.TypeID) []string {
	return l.registry.AllKeys(id)
}

func (l *LocalData) AllValues(id db.TypeID) []any {
	return l.registry.AllValues(id)
}

package localdata

import (
	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/store"
)

// The functions in this file address the store of T directly. They cannot name an
// unsupported type.

func Get[T db.Value](l *LocalData, key string, def T) T {
	return store.StoreOf[T](l.registry).Get(key, def)
}

// Set stores value under key and returns the value now associated with key.
func Set[T db.Value](l *LocalData, key string, value T) T {
	return store.StoreOf[T](l.registry).Set(key, value)
}

func TryGet[T db.Value](l *LocalData, key string) (T, bool) {
	return store.StoreOf[T](l.registry).TryGet(key)
}

func ContainsKey[T db.Value](l *LocalData, key string) bool {
	return store.StoreOf[T](l.registry).ContainsKey(key)
}

func ContainsValue[T db.Value](l *LocalData, value T) bool {
	return store.StoreOf[T](l.registry).Contains(value)
}

// RenameKey moves the value of oldKey to newKey, overwriting newKey if it exists.
// It returns oldKey if oldKey does not exist.
func RenameKey[T db.Value](l *LocalData, oldKey, newKey string) string {
	return store.StoreOf[T](l.registry).RenameKey(oldKey, newKey)
}

// RenameKeyByValue renames the first key holding value to newKey.
func RenameKeyByValue[T db.Value](l *LocalData, value T, newKey string) (string, bool) {
	s := store.StoreOf[T](l.registry)
	key, ok := s.KeyOf(value)
	if !ok {
		return "", false
	}
	return s.RenameKey(key, newKey), true
}

func FirstKeyForValue[T db.Value](l *LocalData, value T) (string, bool) {
	return store.StoreOf[T](l.registry).KeyOf(value)
}

func AllKeysForValue[T db.Value](l *LocalData, value T) []string {
	return store.StoreOf[T](l.registry).KeysOf(value)
}

func RemoveKey[T db.Value](l *LocalData, key string) bool {
	return store.StoreOf[T](l.registry).RemoveKey(key)
}

func RemoveKeys[T db.Value](l *LocalData, keys ...string) {
	store.StoreOf[T](l.registry).RemoveKeys(keys)
}

// RemoveKeyByValue removes the first key holding value.
func RemoveKeyByValue[T db.Value](l *LocalData, value T) bool {
	s := store.StoreOf[T](l.registry)
	key, ok := s.KeyOf(value)
	return ok && s.RemoveKey(key)
}

// RemoveKeysByValue removes every key holding value and reports whether there was one.
func RemoveKeysByValue[T db.Value](l *LocalData, value T) bool {
	s := store.StoreOf[T](l.registry)
	keys := s.KeysOf(value)
	s.RemoveKeys(keys)
	return len(keys) > 0
}

// DeleteAllOf clears the store of T.
func DeleteAllOf[T db.Value](l *LocalData) {
	store.StoreOf[T](l.registry).DeleteAll()
}

func KeyCount[T db.Value](l *LocalData) int {
	return store.StoreOf[T](l.registry).Len()
}

func AllKeys[T db.Value](l *LocalData) []string {
	return store.StoreOf[T](l.registry).Keys()
}

func AllValues[T db.Value](l *LocalData) []T {
	return store.StoreOf[T](l.registry).Values()
}

package store

import (
	"fmt"

	"github.com/ValentinKolb/localdata/lib/db"
)

// Section is the flattened form of one typed store: two parallel sequences.
type Section[T db.Value] struct {
	Keys   []string `json:"keys"`
	Values []T      `json:"values"`
}

// Snapshot is the persisted document: the two document flags plus one section per supported type.
type Snapshot struct {
	EnableEncryption bool `json:"EnableEncryption"`
	AutoSave         bool `json:"AutoSave"`

	Strings Section[string]     `json:"Strings"`
	Bools   Section[bool]       `json:"Bools"`
	Ints    Section[int]        `json:"Ints"`
	Floats  Section[float64]    `json:"Floats"`
	Vector2 Section[db.Vector2] `json:"Vector2"`
	Vector3 Section[db.Vector3] `json:"Vector3"`
}

// Validate checks that every section holds as many values as keys.
func (s *Snapshot) Validate() error {
	lengths := []struct {
		id           db.TypeID
		keys, values int
	}{
		{db.TypeString, len(s.Strings.Keys), len(s.Strings.Values)},
		{db.TypeBool, len(s.Bools.Keys), len(s.Bools.Values)},
		{db.TypeInt, len(s.Ints.Keys), len(s.Ints.Values)},
		{db.TypeFloat, len(s.Floats.Keys), len(s.Floats.Values)},
		{db.TypeVector2, len(s.Vector2.Keys), len(s.Vector2.Values)},
		{db.TypeVector3, len(s.Vector3.Keys), len(s.Vector3.Values)},
	}
	for _, l := range lengths {
		if l.keys != l.values {
			return NewError(RetCMalformedSnapshot, fmt.Sprintf("section %s has %d keys but %d values", l.id, l.keys, l.values))
		}
	}
	return nil
}

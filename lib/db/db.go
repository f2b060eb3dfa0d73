package db

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// TypeID identifies one member of the closed set of value types a registry can hold.
type TypeID uint8

const (
	TypeInvalid TypeID = iota // 0: Not a supported type.
	TypeString                // 1: string
	TypeBool                  // 2: bool
	TypeInt                   // 3: int
	TypeFloat                 // 4: float64
	TypeVector2               // 5: Vector2
	TypeVector3               // 6: Vector3
)

// SupportedTypes lists every supported TypeID in registry order.
var SupportedTypes = []TypeID{TypeString, TypeBool, TypeInt, TypeFloat, TypeVector2, TypeVector3}

func (t TypeID) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeVector2:
		return "vector2"
	case TypeVector3:
		return "vector3"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Supported reports whether t is part of the closed type set.
func (t TypeID) Supported() bool {
	return t >= TypeString && t <= TypeVector3
}

// ParseTypeID converts a type name (as printed by TypeID.String) to a TypeID.
// Unknown names return TypeInvalid and an error.
func ParseTypeID(name string) (TypeID, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return TypeString, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "int", "integer":
		return TypeInt, nil
	case "float", "float64", "double":
		return TypeFloat, nil
	case "vector2", "vec2":
		return TypeVector2, nil
	case "vector3", "vec3":
		return TypeVector3, nil
	default:
		return TypeInvalid, fmt.Errorf("unknown type %q (expected one of string, bool, int, float, vector2, vector3)", name)
	}
}

// Vector2 is a two component vector.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Vector3 is a three component vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Value is the closed set of types a typed store can be instantiated with.
type Value interface {
	string | bool | int | float64 | Vector2 | Vector3
}

// TypeOf returns the TypeID of the type parameter T.
func TypeOf[T Value]() TypeID {
	var zero T
	return TypeOfValue(zero)
}

// TypeOfValue returns the TypeID matching the dynamic type of v,
// or TypeInvalid if v is not one of the supported types.
func TypeOfValue(v any) TypeID {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int:
		return TypeInt
	case float64:
		return TypeFloat
	case Vector2:
		return TypeVector2
	case Vector3:
		return TypeVector3
	default:
		return TypeInvalid
	}
}

// Equal reports whether a and b hold the same value. Unlike ==, a NaN float
// (or vector component) equals another NaN.
func Equal[T Value](a, b T) bool {
	switch x := any(a).(type) {
	case float64:
		return floatEqual(x, any(b).(float64))
	case Vector2:
		y := any(b).(Vector2)
		return floatEqual(x.X, y.X) && floatEqual(x.Y, y.Y)
	case Vector3:
		y := any(b).(Vector3)
		return floatEqual(x.X, y.X) && floatEqual(x.Y, y.Y) && floatEqual(x.Z, y.Z)
	default:
		return a == b
	}
}

func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// ParseValue parses the textual form of a value of type t.
// Vectors are written as comma separated components, e.g. "1.5,2" or "1,2,3".
func ParseValue(t TypeID, s string) (any, error) {
	switch t {
	case TypeString:
		return s, nil
	case TypeBool:
		return strconv.ParseBool(s)
	case TypeInt:
		return strconv.Atoi(s)
	case TypeFloat:
		return strconv.ParseFloat(s, 64)
	case TypeVector2:
		c, err := parseComponents(s, 2)
		if err != nil {
			return nil, err
		}
		return Vector2{X: c[0], Y: c[1]}, nil
	case TypeVector3:
		c, err := parseComponents(s, 3)
		if err != nil {
			return nil, err
		}
		return Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
	default:
		return nil, fmt.Errorf("cannot parse value for unsupported type %s", t)
	}
}

func parseComponents(s string, n int) ([]float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "()")
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated components, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Store Interface
// --------------------------------------------------------------------------

// IData is the type-erased view of a single typed store. It is what the registry
// dispatches to when the value type is only known at runtime (as a TypeID).
// Values passed in must have the dynamic type of the store, see ErrTypeMismatch.
type IData interface {

	// --------------------------------------------------------------------------
	// Metadata
	// --------------------------------------------------------------------------

	// Type returns the TypeID of the values held by the store.
	Type() TypeID

	// Len returns the number of keys in the store.
	Len() int

	// IsDirty reports whether the store changed since the last Flatten.
	IsDirty() bool

	// MarkDirty flags the store as changed, e.g. after a flattened snapshot failed to persist.
	MarkDirty()

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// GetAny returns the stored value for key or def if the key is absent.
	GetAny(key string, def any) any

	// ContainsKey reports whether key exists.
	ContainsKey(key string) bool

	// ContainsAny reports whether any key holds value. Values of another type never match.
	ContainsAny(value any) bool

	// KeyOfAny returns the first key (in iteration order) holding value.
	KeyOfAny(value any) (key string, found bool)

	// KeysOfAny returns every key holding value, in iteration order.
	KeysOfAny(value any) []string

	// Keys returns all keys in iteration order.
	Keys() []string

	// AnyValues returns all values in iteration order.
	AnyValues() []any

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// SetAny inserts or updates key. It fails with ErrTypeMismatch if value has the wrong type.
	SetAny(key string, value any) (any, error)

	// RenameKey moves the value stored under oldKey to newKey and returns newKey.
	// If oldKey does not exist, oldKey is returned and nothing changes.
	RenameKey(oldKey, newKey string) string

	// RemoveKey removes key and reports whether it existed.
	RemoveKey(key string) bool

	// RemoveKeys removes every given key, ignoring missing ones.
	RemoveKeys(keys []string)

	// DeleteAll removes every key and marks the store dirty.
	DeleteAll()
}

// ErrTypeMismatch is returned by IData.SetAny when the value does not match the store type.
type ErrTypeMismatch struct {
	Want TypeID
	Got  any
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: store holds %s, got %T", e.Want, e.Got)
}

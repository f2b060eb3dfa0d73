package db

import (
	"math"
	"testing"
)

func TestParseTypeID(t *testing.T) {
	for _, id := range SupportedTypes {
		got, err := ParseTypeID(id.String())
		if err != nil {
			t.Errorf("Unexpected error parsing %q: %v", id.String(), err)
		}
		if got != id {
			t.Errorf("Expected %s, got %s", id, got)
		}
	}

	if id, err := ParseTypeID("quaternion"); err == nil || id != TypeInvalid {
		t.Errorf("Expected an error and TypeInvalid for an unknown type, got %s, %v", id, err)
	}
	if TypeInvalid.Supported() || TypeID(42).Supported() {
		t.Errorf("Expected only the closed set to be supported")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		id   TypeID
		in   string
		want any
	}{
		{"string", TypeString, "hello world", "hello world"},
		{"bool", TypeBool, "true", true},
		{"int", TypeInt, "-12", -12},
		{"float", TypeFloat, "2.5", 2.5},
		{"vector2", TypeVector2, "1, 2", Vector2{X: 1, Y: 2}},
		{"vector3", TypeVector3, "(1,2,3.5)", Vector3{X: 1, Y: 2, Z: 3.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.id, tt.in)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
			if TypeOfValue(got) != tt.id {
				t.Errorf("Expected parsed value to be of type %s", tt.id)
			}
		})
	}

	if _, err := ParseValue(TypeVector3, "1,2"); err == nil {
		t.Errorf("Expected an error for a vector with missing components")
	}
	if _, err := ParseValue(TypeInt, "ten"); err == nil {
		t.Errorf("Expected an error for a malformed int")
	}
	if _, err := ParseValue(TypeInvalid, "x"); err == nil {
		t.Errorf("Expected an error for an unsupported type")
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf[int]() != TypeInt || TypeOf[Vector2]() != TypeVector2 || TypeOf[string]() != TypeString {
		t.Errorf("TypeOf returned wrong ids")
	}
	if TypeOfValue(int64(1)) != TypeInvalid {
		t.Errorf("Expected int64 to be unsupported")
	}
}

func TestEqual(t *testing.T) {
	nan := math.NaN()
	if !Equal(nan, nan) {
		t.Errorf("Expected NaN to equal NaN")
	}
	if Equal(nan, 1.0) || Equal(1.0, 2.0) {
		t.Errorf("Expected distinct floats to differ")
	}
	if !Equal(math.Inf(1), math.Inf(1)) || Equal(math.Inf(1), math.Inf(-1)) {
		t.Errorf("Expected infinities to compare by sign")
	}
	if !Equal(Vector2{X: nan, Y: 1}, Vector2{X: nan, Y: 1}) || Equal(Vector2{X: nan, Y: 1}, Vector2{X: nan, Y: 2}) {
		t.Errorf("Expected Vector2 to compare component-wise with NaN equal to NaN")
	}
	if !Equal(Vector3{Z: nan}, Vector3{Z: nan}) {
		t.Errorf("Expected Vector3 with NaN components to be equal")
	}
	if !Equal("a", "a") || Equal(1, 2) {
		t.Errorf("Expected the other types to use plain equality")
	}
}

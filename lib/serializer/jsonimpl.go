package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/store"
)

var errNotAnObject = errors.New("json: document is not an object")

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() ISerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Name() string { return "json" }

func (j jsonSerializerImpl) Serialize(s *store.Snapshot) ([]byte, error) {
	return json.MarshalIndent(toJSONDocument(s), "", "  ")
}

func (j jsonSerializerImpl) Deserialize(b []byte, s *store.Snapshot) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return errNotAnObject
	}

	var doc jsonDocument
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	// trailing garbage after the object
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("json: unexpected data after document")
	}
	doc.snapshot(s)
	return nil
}

// --------------------------------------------------------------------------
// Wire Format
//
// The document mirrors store.Snapshot field by field. Floats go through
// jsonFloat so NaN and ±Inf, which encoding/json refuses, are written as the
// strings "NaN", "+Inf" and "-Inf".
// --------------------------------------------------------------------------

type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*f = jsonFloat(math.NaN())
		case "+Inf", "Inf":
			*f = jsonFloat(math.Inf(1))
		case "-Inf":
			*f = jsonFloat(math.Inf(-1))
		default:
			return fmt.Errorf("json: invalid float %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type jsonVector2 struct {
	X jsonFloat `json:"x"`
	Y jsonFloat `json:"y"`
}

type jsonVector3 struct {
	X jsonFloat `json:"x"`
	Y jsonFloat `json:"y"`
	Z jsonFloat `json:"z"`
}

type jsonSection[T any] struct {
	Keys   []string `json:"keys"`
	Values []T      `json:"values"`
}

type jsonDocument struct {
	EnableEncryption bool `json:"EnableEncryption"`
	AutoSave         bool `json:"AutoSave"`

	Strings store.Section[string]    `json:"Strings"`
	Bools   store.Section[bool]      `json:"Bools"`
	Ints    store.Section[int]       `json:"Ints"`
	Floats  jsonSection[jsonFloat]   `json:"Floats"`
	Vector2 jsonSection[jsonVector2] `json:"Vector2"`
	Vector3 jsonSection[jsonVector3] `json:"Vector3"`
}

func toJSONDocument(s *store.Snapshot) *jsonDocument {
	return &jsonDocument{
		EnableEncryption: s.EnableEncryption,
		AutoSave:         s.AutoSave,
		Strings:          s.Strings,
		Bools:            s.Bools,
		Ints:             s.Ints,
		Floats: jsonSection[jsonFloat]{
			Keys: s.Floats.Keys,
			Values: convert(s.Floats.Values, func(v float64) jsonFloat {
				return jsonFloat(v)
			}),
		},
		Vector2: jsonSection[jsonVector2]{
			Keys: s.Vector2.Keys,
			Values: convert(s.Vector2.Values, func(v db.Vector2) jsonVector2 {
				return jsonVector2{X: jsonFloat(v.X), Y: jsonFloat(v.Y)}
			}),
		},
		Vector3: jsonSection[jsonVector3]{
			Keys: s.Vector3.Keys,
			Values: convert(s.Vector3.Values, func(v db.Vector3) jsonVector3 {
				return jsonVector3{X: jsonFloat(v.X), Y: jsonFloat(v.Y), Z: jsonFloat(v.Z)}
			}),
		},
	}
}

func (d *jsonDocument) snapshot(s *store.Snapshot) {
	s.EnableEncryption = d.EnableEncryption
	s.AutoSave = d.AutoSave
	s.Strings = d.Strings
	s.Bools = d.Bools
	s.Ints = d.Ints
	s.Floats = store.Section[float64]{
		Keys: d.Floats.Keys,
		Values: convert(d.Floats.Values, func(v jsonFloat) float64 {
			return float64(v)
		}),
	}
	s.Vector2 = store.Section[db.Vector2]{
		Keys: d.Vector2.Keys,
		Values: convert(d.Vector2.Values, func(v jsonVector2) db.Vector2 {
			return db.Vector2{X: float64(v.X), Y: float64(v.Y)}
		}),
	}
	s.Vector3 = store.Section[db.Vector3]{
		Keys: d.Vector3.Keys,
		Values: convert(d.Vector3.Values, func(v jsonVector3) db.Vector3 {
			return db.Vector3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
		}),
	}
}

// convert maps in element-wise, keeping a nil slice nil.
func convert[S, D any](in []S, f func(S) D) []D {
	if in == nil {
		return nil
	}
	out := make([]D, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

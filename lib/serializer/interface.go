package serializer

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/localdata/lib/store"
)

// ISerializer is the interface for all Snapshot serializers
type ISerializer interface {
	// Name returns the identifier used in configuration ("json", "gob").
	Name() string
	// Serialize serializes a Snapshot into a byte array
	Serialize(s *store.Snapshot) ([]byte, error)
	// Deserialize decodes b into s. It returns an error if b is not a complete
	// document of this format.
	Deserialize(b []byte, s *store.Snapshot) error
}

// New returns the serializer registered under name. "json" produces the structured
// text document and is the default; "gob" produces a binary document that only Go
// programs can read and is meant for callers that do not need a text file.
func New(name string) (ISerializer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer %q (expected json or gob)", name)
	}
}

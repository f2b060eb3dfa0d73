package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/localdata/lib/crypto"
	"github.com/ValentinKolb/localdata/lib/serializer"
)

// Settings configures where and how a registry is persisted. The core consumes but
// does not own these values.
type Settings struct {
	// Directory holds both file variants. Empty means the working directory.
	Directory string
	// Name is the file base name. Marker symbols inside it are stripped.
	Name string
	// Extension is the file extension, with or without a leading dot.
	Extension string
	// Marker is appended to Name for the encrypted variant.
	Marker string
	// Key is passed unchanged to the Cryptographer.
	Key string

	Cryptographer crypto.ICryptographer
	Serializer    serializer.ISerializer

	// EnableEncryption and AutoSave are the document flags of a fresh registry.
	// A loaded document carries its own.
	EnableEncryption bool
	AutoSave         bool

	// AtomicWrite writes through a temp file and a rename.
	AtomicWrite bool
	// FileMode is the permission of written files.
	FileMode os.FileMode
}

// DefaultSettings returns settings for "./data.save" encrypted with AES-GCM.
// The caller still has to supply a key.
func DefaultSettings() *Settings {
	return &Settings{
		Directory:        ".",
		Name:             "data",
		Extension:        "save",
		Marker:           "#",
		Cryptographer:    crypto.NewAESCryptographer(),
		Serializer:       serializer.NewJSONSerializer(),
		EnableEncryption: true,
		AutoSave:         true,
		AtomicWrite:      true,
		FileMode:         0o600,
	}
}

// Validate reports configuration that would make the two file variants ambiguous
// or unusable.
func (s *Settings) Validate() error {
	var errs []error
	if s.baseName() == "" {
		errs = append(errs, errors.New("file name must not be empty"))
	}
	if s.extension() == "" {
		errs = append(errs, errors.New("file extension must not be empty"))
	}
	if s.Marker == "" {
		errs = append(errs, errors.New("encryption marker must not be empty"))
	}
	if strings.ContainsAny(s.Marker, `/\`) || strings.ContainsAny(s.Name, `/\`) {
		errs = append(errs, errors.New("file name and marker must not contain path separators"))
	}
	if s.Serializer == nil {
		errs = append(errs, errors.New("serializer must be set"))
	}
	return errors.Join(errs...)
}

func (s *Settings) baseName() string {
	if s.Marker == "" {
		return s.Name
	}
	return strings.ReplaceAll(s.Name, s.Marker, "")
}

func (s *Settings) extension() string {
	return strings.TrimPrefix(s.Extension, ".")
}

// PlainPath returns {directory}/{name}.{extension}.
func (s *Settings) PlainPath() string {
	return filepath.Join(s.Directory, s.baseName()+"."+s.extension())
}

// EncryptedPath returns {directory}/{name}{marker}.{extension}.
func (s *Settings) EncryptedPath() string {
	return filepath.Join(s.Directory, s.baseName()+s.Marker+"."+s.extension())
}

// String returns a formatted string representation of the settings. The key is masked.
func (s *Settings) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Files")
	addField("Plaintext Path", s.PlainPath())
	addField("Encrypted Path", s.EncryptedPath())
	addField("Atomic Write", fmt.Sprintf("%t", s.AtomicWrite))
	addField("File Mode", fmt.Sprintf("%#o", s.FileMode))

	addSection("Document")
	addField("Encryption", fmt.Sprintf("%t", s.EnableEncryption))
	addField("Auto Save", fmt.Sprintf("%t", s.AutoSave))
	if s.Serializer != nil {
		addField("Serializer", s.Serializer.Name())
	}

	addSection("Encryption")
	if s.Cryptographer != nil {
		addField("Cryptographer", s.Cryptographer.Name())
	} else {
		addField("Cryptographer", "none")
	}
	if s.Key == "" {
		addField("Key", "not set")
	} else {
		addField("Key", fmt.Sprintf("set (%d bytes)", len(s.Key)))
	}

	return sb.String()
}

package crypto

import (
	"fmt"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("crypto")

// ICryptographer encrypts and decrypts text blobs with a caller supplied key.
type ICryptographer interface {
	// Name returns the identifier used in configuration ("aes", "chacha20").
	Name() string

	// Encrypt seals plaintext with key. It fails only if key cannot be used by the algorithm
	// or the system random source fails.
	Encrypt(plaintext, key string) ([]byte, error)

	// Decrypt opens data with key. It returns "" on any failure and never panics.
	Decrypt(data []byte, key string) string
}

// New returns the cryptographer registered under name.
func New(name string) (ICryptographer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aes", "aes-gcm":
		return NewAESCryptographer(), nil
	case "chacha20", "chacha", "chacha20poly1305":
		return NewChaChaCryptographer(), nil
	default:
		return nil, fmt.Errorf("unknown cryptographer %q (expected aes or chacha20)", name)
	}
}

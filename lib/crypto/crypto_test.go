package crypto

import (
	"strings"
	"testing"
)

const aesKey = "0123456789abcdef0123456789abcdef"

func cryptographers() []ICryptographer {
	// cheap scrypt cost keeps the tests fast
	return []ICryptographer{NewAESCryptographer(), &ChaChaCryptographer{N: 1 << 10, R: 8, P: 1}}
}

func keyFor(c ICryptographer) string {
	if c.Name() == "aes" {
		return aesKey
	}
	return "correct horse battery staple"
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		`{"EnableEncryption":true}`,
		"",
		strings.Repeat("x", 10_000),
		"unicode: äöü ✓",
	}
	for _, c := range cryptographers() {
		t.Run(c.Name(), func(t *testing.T) {
			for _, text := range texts {
				data, err := c.Encrypt(text, keyFor(c))
				if err != nil {
					t.Fatalf("Unexpected error during Encrypt: %v", err)
				}
				if text != "" && strings.Contains(string(data), text) {
					t.Errorf("Ciphertext contains the plaintext")
				}
				if got := c.Decrypt(data, keyFor(c)); got != text {
					t.Errorf("Expected %q after round trip, got %q", text, got)
				}
			}
		})
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	for _, c := range cryptographers() {
		a, _ := c.Encrypt("same", keyFor(c))
		b, _ := c.Encrypt("same", keyFor(c))
		if string(a) == string(b) {
			t.Errorf("%s: expected two encryptions of the same text to differ", c.Name())
		}
	}
}

func TestDecryptFailures(t *testing.T) {
	for _, c := range cryptographers() {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encrypt("secret document", keyFor(c))
			if err != nil {
				t.Fatalf("Unexpected error during Encrypt: %v", err)
			}

			wrongKey := "fedcba9876543210fedcba9876543210"
			if got := c.Decrypt(data, wrongKey); got != "" {
				t.Errorf("Expected blank result for a wrong key, got %q", got)
			}

			corrupt := append([]byte(nil), data...)
			corrupt[len(corrupt)/2] ^= 0x01
			if got := c.Decrypt(corrupt, keyFor(c)); got != "" {
				t.Errorf("Expected blank result for corrupted bytes, got %q", got)
			}

			inputs := [][]byte{nil, {}, []byte("x"), []byte(`{"Strings":{"keys":[],"values":[]}}`), data[:len(data)/3]}
			for _, in := range inputs {
				if got := c.Decrypt(in, keyFor(c)); got != "" {
					t.Errorf("Expected blank result for %q, got %q", in, got)
				}
			}
		})
	}
}

func TestAESInvalidKey(t *testing.T) {
	c := NewAESCryptographer()
	if _, err := c.Encrypt("text", "short"); err == nil {
		t.Errorf("Expected an error for a key of invalid length")
	}
	if got := c.Decrypt([]byte("whatever the content"), "short"); got != "" {
		t.Errorf("Expected blank result for an invalid key, got %q", got)
	}
}

func TestChaChaEmptyPassphrase(t *testing.T) {
	if _, err := NewChaChaCryptographer().Encrypt("text", ""); err == nil {
		t.Errorf("Expected an error for an empty passphrase")
	}
}

func TestChaChaRejectsExpensiveEnvelope(t *testing.T) {
	env := `{"v":1,"salt":"AAAAAAAAAAAAAAAAAAAAAA==","scrypt_N":1073741824,"scrypt_r":8,"scrypt_p":1,"nonce":"AAAAAAAAAAAAAAAA","cipher":"AAAA"}`
	if got := NewChaChaCryptographer().Decrypt([]byte(env), "key"); got != "" {
		t.Errorf("Expected blank result, got %q", got)
	}
}

func TestChaChaRejectsOversizedCost(t *testing.T) {
	for name, cost := range map[string]string{
		"block size":     `"scrypt_N":1048576,"scrypt_r":65536,"scrypt_p":1`,
		"parallelism":    `"scrypt_N":2,"scrypt_r":1,"scrypt_p":1073741823`,
		"memory":         `"scrypt_N":1048576,"scrypt_r":32,"scrypt_p":1`,
		"zero block":     `"scrypt_N":16,"scrypt_r":0,"scrypt_p":1`,
		"negative param": `"scrypt_N":-16,"scrypt_r":8,"scrypt_p":1`,
	} {
		t.Run(name, func(t *testing.T) {
			env := `{"v":1,"salt":"AAAAAAAAAAAAAAAAAAAAAA==",` + cost + `,"nonce":"AAAAAAAAAAAAAAAA","cipher":"AAAA"}`
			if got := NewChaChaCryptographer().Decrypt([]byte(env), "key"); got != "" {
				t.Errorf("Expected blank result, got %q", got)
			}
		})
	}
}

func TestChaChaDefaultCostAccepted(t *testing.T) {
	c := NewChaChaCryptographer()
	if err := checkCost(c.N, c.R, c.P); err != nil {
		t.Fatalf("Default cost must be within the decrypt bounds: %v", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"aes", "AES", "chacha20"} {
		if _, err := New(name); err != nil {
			t.Errorf("Unexpected error for %q: %v", name, err)
		}
	}
	if _, err := New("rot13"); err == nil {
		t.Errorf("Expected an error for an unknown cryptographer")
	}
}

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// AESCryptographer seals documents with AES-GCM. The key string is used as the raw
// AES key and must therefore be 16, 24 or 32 bytes long.
type AESCryptographer struct{}

func NewAESCryptographer() *AESCryptographer {
	return &AESCryptographer{}
}

func (c *AESCryptographer) Name() string { return "aes" }

func (c *AESCryptographer) aead(key string) (cipher.AEAD, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aead, nil
}

// Encrypt returns nonce || ciphertext.
func (c *AESCryptographer) Encrypt(plaintext, key string) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}

	// fresh nonce per encryption under the same key
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (c *AESCryptographer) Decrypt(data []byte, key string) string {
	aead, err := c.aead(key)
	if err != nil {
		plog.Warningf("aes: %v", err)
		return ""
	}

	nonceSize := aead.NonceSize()
	if len(data) < nonceSize+aead.Overhead() {
		plog.Debugf("aes: payload too short (%d bytes)", len(data))
		return ""
	}
	plaintext, err := aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		plog.Debugf("aes: open failed: %v", err)
		return ""
	}
	return string(plaintext)
}

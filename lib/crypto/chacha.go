package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	// envelopeVersion is the newest envelope format this package can open.
	envelopeVersion = 1
	// Bounds on the scrypt cost a stored envelope can make Decrypt spend.
	maxScryptN      = 1 << 20
	maxScryptR      = 32
	maxScryptP      = 16
	maxScryptMemory = 256 << 20 // bytes, scrypt allocates 128*N*r
)

// envelope is the JSON structure written by ChaChaCryptographer.
type envelope struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// ChaChaCryptographer derives a ChaCha20-Poly1305 key from the passphrase with scrypt.
// Any non-empty passphrase is accepted.
type ChaChaCryptographer struct {
	N, R, P int // scrypt cost parameters used for new envelopes
}

// NewChaChaCryptographer returns a cryptographer with the default scrypt cost (N=2^15, r=8, p=1).
func NewChaChaCryptographer() *ChaChaCryptographer {
	return &ChaChaCryptographer{N: 1 << 15, R: 8, P: 1}
}

func (c *ChaChaCryptographer) Name() string { return "chacha20" }

func (c *ChaChaCryptographer) Encrypt(plaintext, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("chacha20: empty passphrase")
	}
	if err := checkCost(c.N, c.R, c.P); err != nil {
		return nil, fmt.Errorf("chacha20: %w", err)
	}

	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	dk, err := scrypt.Key([]byte(key), salt[:], c.N, c.R, c.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("chacha20: derive key: %w", err)
	}
	aead, err := chacha20poly1305.New(dk)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		V:      envelopeVersion,
		Salt:   salt[:],
		N:      c.N,
		R:      c.R,
		P:      c.P,
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, []byte(plaintext), salt[:]),
	})
}

func (c *ChaChaCryptographer) Decrypt(data []byte, key string) string {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		plog.Debugf("chacha20: not an envelope: %v", err)
		return ""
	}
	if env.V < 1 || env.V > envelopeVersion {
		plog.Warningf("chacha20: unsupported envelope version %d", env.V)
		return ""
	}
	if len(env.Nonce) != chacha20poly1305.NonceSize {
		plog.Debugf("chacha20: bad nonce length %d", len(env.Nonce))
		return ""
	}

	if err := checkCost(env.N, env.R, env.P); err != nil {
		plog.Warningf("chacha20: %v", err)
		return ""
	}
	dk, err := scrypt.Key([]byte(key), env.Salt, env.N, env.R, env.P, chacha20poly1305.KeySize)
	if err != nil {
		plog.Debugf("chacha20: derive key: %v", err)
		return ""
	}
	aead, err := chacha20poly1305.New(dk)
	if err != nil {
		return ""
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Cipher, env.Salt)
	if err != nil {
		plog.Debugf("chacha20: wrong passphrase or corrupted envelope")
		return ""
	}
	return string(plaintext)
}

// checkCost rejects scrypt parameters outside the bounds Decrypt is willing to pay for.
func checkCost(n, r, p int) error {
	if n < 2 || n > maxScryptN || r < 1 || r > maxScryptR || p < 1 || p > maxScryptP {
		return fmt.Errorf("scrypt cost N=%d r=%d p=%d out of range", n, r, p)
	}
	if 128*n*r > maxScryptMemory {
		return fmt.Errorf("scrypt cost N=%d r=%d needs more than %d bytes", n, r, maxScryptMemory)
	}
	return nil
}

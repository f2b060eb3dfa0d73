// Package crypto provides the pluggable symmetric encryption capability used to wrap
// persisted documents at rest.
//
// Every implementation satisfies ICryptographer. Encrypt returns an error for
// unusable keys, but Decrypt never does: a blank string is the failure sentinel for a
// wrong key, truncated or tampered bytes, or input that was never encrypted. The
// persistence engine relies on this to try several interpretations of a file without
// error driven control flow.
//
// Implementations:
//
//   - AESCryptographer: AES-GCM keyed directly with the key string, which must be 16,
//     24 or 32 bytes long. Output is nonce || ciphertext.
//
//   - ChaChaCryptographer: ChaCha20-Poly1305 keyed by scrypt from an arbitrary
//     passphrase. Output is a small JSON envelope carrying the KDF parameters, salt,
//     nonce and ciphertext, so the cost parameters can change without breaking old files.
package crypto

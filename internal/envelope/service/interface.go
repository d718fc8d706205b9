// Package service implements the cryptographic primitives of the envelope
// protocol: session key generation, symmetric payload encryption, RSA key
// wrapping with padding-scheme fallback, detached signatures and reference
// number generation.
package service

import (
	"crypto/rsa"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

// SessionKeyGenerator produces fresh single-use session keys.
type SessionKeyGenerator interface {
	// Generate returns a 32-character alphanumeric session key drawn from a
	// cryptographically secure randomness source.
	Generate() (envelopeDomain.SessionKey, error)
}

// SymmetricCipher performs the payload encryption side of the protocol.
type SymmetricCipher interface {
	// Encrypt seals plaintext with AES-256-GCM under the session key, using
	// the protocol-mandated key-derived nonce. Returns
	// base64(ciphertext || 16-byte tag).
	Encrypt(plaintext []byte, key envelopeDomain.SessionKey) (string, error)

	// Decrypt is the inverse of Encrypt. Returns ErrDecryptionFailed on
	// auth-tag mismatch or malformed input.
	Decrypt(ciphertext string, key envelopeDomain.SessionKey) ([]byte, error)

	// DecryptCBC attempts legacy AES-CBC decryption with IV = first 16 key
	// bytes and PKCS#7 unpadding. Used only by the opener's final fallback.
	DecryptCBC(ciphertext string, key envelopeDomain.SessionKey) ([]byte, error)
}

// KeyWrapper encrypts and decrypts session keys under RSA keys, trying
// padding-scheme variants in a fixed priority order. The scheme that
// ultimately succeeded is reported for diagnostics only; callers must not
// branch on it.
type KeyWrapper interface {
	// Wrap encrypts the session key under the recipient's public key,
	// attempting OAEP-SHA256, then OAEP-SHA1, then PKCS#1v1.5.
	Wrap(key envelopeDomain.SessionKey, recipient *rsa.PublicKey) (wrapped string, scheme envelopeDomain.WrapScheme, err error)

	// Unwrap decrypts a wrapped key, attempting OAEP-SHA256 then PKCS#1v1.5,
	// accepting the first plaintext that is a syntactically valid session key.
	Unwrap(wrapped string, own *rsa.PrivateKey) (key envelopeDomain.SessionKey, scheme envelopeDomain.WrapScheme, err error)
}

// Signer computes and checks detached signatures over the canonical plaintext.
type Signer interface {
	// Sign computes a SHA-256 digest of the plaintext and signs it with
	// RSA PKCS#1v1.5, returning the base64 signature.
	Sign(plaintext []byte, own *rsa.PrivateKey) (string, error)

	// Verify recomputes the digest and checks the signature. It never
	// returns an error: any failure (malformed signature, wrong key,
	// mismatched digest) yields false with the cause logged.
	Verify(plaintext []byte, signature string, counterparty *rsa.PublicKey) bool
}

// ReferenceNumberGenerator produces the per-request correlation identifier.
type ReferenceNumberGenerator interface {
	Generate() (envelopeDomain.ReferenceNumber, error)
}

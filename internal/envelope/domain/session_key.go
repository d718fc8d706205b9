package domain

// SessionKey is a single-use symmetric key: exactly 32 characters drawn from
// [A-Za-z0-9]. The counterparty consumes the literal characters as AES-256 key
// bytes, so the key is represented as a string rather than raw bytes.
//
// A session key lives for exactly one request/response exchange: one encrypt
// operation and, if applicable, the paired decrypt of the correlated response.
// It is never persisted in plaintext and never reused across requests.
type SessionKey string

// Validate checks the key is exactly 32 alphanumeric characters.
func (k SessionKey) Validate() error {
	if len(k) != SessionKeyLength {
		return ErrInvalidSessionKey
	}
	for _, c := range k {
		if !isAlphanumeric(c) {
			return ErrInvalidSessionKey
		}
	}
	return nil
}

// Bytes returns the literal key characters as AES key material. The caller
// owns the returned slice and should Zero it after use.
func (k SessionKey) Bytes() []byte {
	return []byte(k)
}

// GCMNonce returns the protocol-mandated nonce: the first 12 bytes of the key.
// Safe only because each key is freshly random and used for a single encrypt.
func (k SessionKey) GCMNonce() []byte {
	return []byte(k[:GCMNonceSize])
}

// CBCIV returns the legacy-compatibility IV: the first 16 bytes of the key.
func (k SessionKey) CBCIV() []byte {
	return []byte(k[:CBCIVSize])
}

// isAlphanumeric checks if a character is alphanumeric [A-Za-z0-9].
func isAlphanumeric(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

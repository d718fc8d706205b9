package domain

// SessionKeyLength is the exact length of a session key in characters.
// The counterparty derives the AES key directly from these literal characters
// (no KDF), so the length is fixed by the wire protocol.
const SessionKeyLength = 32

// SessionKeyAlphabet is the character set session keys are drawn from.
const SessionKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GCMNonceSize is the number of leading session-key bytes used as the GCM nonce.
// This derivation is a counterparty protocol requirement, not a local choice.
const GCMNonceSize = 12

// CBCIVSize is the number of leading session-key bytes used as the IV for the
// legacy CBC decryption fallback.
const CBCIVSize = 16

// ReferenceNumberLength is the exact length of a request reference number.
const ReferenceNumberLength = 25

// ReferenceNumberPrefix is the fixed prefix of every reference number.
const ReferenceNumberPrefix = "SBI"

// ResponseStatusError is the RESPONSE_STATUS value signalling a counterparty
// protocol error.
const ResponseStatusError = "2"

// DecryptStrategy identifies which decryption strategy recovered a response.
// Recorded for diagnostics only; callers must not branch on it.
type DecryptStrategy string

const (
	// StrategyNone means no decryption took place (plain body or degraded mode).
	StrategyNone DecryptStrategy = ""

	// StrategyGCM is AES-256-GCM with the key-derived nonce.
	StrategyGCM DecryptStrategy = "aes-gcm"

	// StrategyGCMRetry is the explicit second GCM attempt without a supplied
	// nonce/tag. Some transport paths swallow the tag, so the retry is kept
	// as its own step.
	StrategyGCMRetry DecryptStrategy = "aes-gcm-retry"

	// StrategyCBCLegacy is plain AES-CBC with IV = first 16 key bytes.
	StrategyCBCLegacy DecryptStrategy = "aes-cbc-legacy"
)

// WrapScheme identifies an RSA key-wrapping padding scheme.
type WrapScheme string

const (
	// WrapOAEPSHA256 is RSA OAEP with SHA-256.
	WrapOAEPSHA256 WrapScheme = "oaep-sha256"

	// WrapOAEPSHA1 is RSA OAEP with SHA-1.
	WrapOAEPSHA1 WrapScheme = "oaep-sha1"

	// WrapPKCS1v15 is RSA PKCS#1 v1.5.
	WrapPKCS1v15 WrapScheme = "pkcs1v15"
)

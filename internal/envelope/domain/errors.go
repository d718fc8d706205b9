package domain

import (
	"github.com/pensionseva/eisgateway/internal/errors"
)

// Envelope protocol error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for envelope protocol failures. All errors are mapped
// to appropriate HTTP status codes by the error handling layer.
var (
	// ErrInvalidSessionKey indicates a session key is not a 32-character
	// alphanumeric string.
	ErrInvalidSessionKey = errors.Wrap(errors.ErrInvalidInput, "invalid session key")

	// ErrInvalidReferenceNumber indicates a reference number does not match
	// the 25-character SBI layout.
	ErrInvalidReferenceNumber = errors.Wrap(errors.ErrInvalidInput, "invalid reference number")

	// ErrDecryptionFailed indicates a symmetric decryption attempt failed.
	//
	// This can occur due to a wrong session key, a tampered ciphertext
	// (authentication failure), or malformed input. The opener treats this
	// as a signal to try the next fallback strategy, not as a terminal error.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyUnwrapFailed indicates every unwrap scheme failed to recover a
	// syntactically valid session key from a wrapped key.
	ErrKeyUnwrapFailed = errors.Wrap(errors.ErrInvalidInput, "key unwrap failed")

	// ErrKeyWrapFailed indicates every wrap scheme raised an error. With a
	// well-formed RSA public key this should not happen in practice.
	ErrKeyWrapFailed = errors.New("key wrap failed")

	// ErrEnvelopeBuildFailed indicates a step of envelope construction failed.
	// No partial envelope is ever returned alongside this error.
	ErrEnvelopeBuildFailed = errors.New("envelope build failed")

	// ErrCredentialLoad indicates a credential file is missing or unparsable.
	// This is a startup-time error; the process must not continue serving.
	ErrCredentialLoad = errors.New("credential load failed")
)

// Package usecase orchestrates the envelope protocol: assembling outgoing
// encrypted and signed envelopes, and opening counterparty responses through
// the multi-strategy decryption fallback chain.
package usecase

import (
	"context"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

// PlainRequestFields carries the caller-supplied parts of an outgoing
// request; the reference number is generated during Build and must not be
// supplied.
type PlainRequestFields struct {
	// Payload is the business payload placed in EIS_PAYLOAD.
	Payload any
	// TxnType is the transaction type code.
	TxnType string
	// TxnSubType is the transaction sub-type code.
	TxnSubType string
}

// BuildResult is the product of envelope construction.
//
// The caller must retain SessionKey to decrypt the correlated response: the
// wire protocol never returns the session key, so the initiator's own copy is
// the only decryption key available (the counterparty encrypts its response
// under the same key it received).
type BuildResult struct {
	Envelope    envelopeDomain.Envelope
	SessionKey  envelopeDomain.SessionKey
	AccessToken string // base64 wrapped session key, sent as the AccessToken header
	Plaintext   []byte // the exact signed byte sequence, kept for diagnostics
	WrapScheme  envelopeDomain.WrapScheme
}

// Builder assembles outgoing envelopes.
type Builder interface {
	// Build runs the fixed construction sequence: reference number,
	// canonical serialization, session key, encrypt, sign, key wrap,
	// assembly. Any step failing yields ErrEnvelopeBuildFailed naming the
	// step; no partial envelope is returned. The context is carried for
	// observability only; construction performs no I/O and is not
	// cancellable.
	Build(ctx context.Context, fields PlainRequestFields) (BuildResult, error)
}

// OpenOption customizes a single Open call.
type OpenOption func(*openOptions)

type openOptions struct {
	wrappedResponseKey string
}

// WithWrappedResponseKey supplies a counterparty-issued wrapped key (from a
// response AccessToken header). It is unwrapped and tried only after every
// decryption attempt with the caller's original session key has failed.
func WithWrappedResponseKey(wrapped string) OpenOption {
	return func(o *openOptions) {
		o.wrappedResponseKey = wrapped
	}
}

// Opener recovers plaintext responses from counterparty response bodies.
type Opener interface {
	// Open classifies the response (error / plain / encrypted), walks the
	// decryption fallback chain, and soft-verifies the signature. It returns
	// an error only for a body that is not a JSON object; every protocol
	// outcome, including total decryption failure, is expressed in the
	// OpenedResponse flags.
	Open(
		ctx context.Context,
		body []byte,
		sessionKey envelopeDomain.SessionKey,
		opts ...OpenOption,
	) (envelopeDomain.OpenedResponse, error)
}

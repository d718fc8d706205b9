// Package service provides the verification module's infrastructure services:
// the counterparty HTTP transport and the session-key vault.
package service

import (
	"context"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

// EISClient sends assembled envelopes to the counterparty endpoint.
type EISClient interface {
	// Send posts the envelope with its AccessToken header and returns the raw
	// response body. Transport failures yield ErrCounterpartyUnavailable; the
	// body is returned untouched for the opener to classify, whatever its
	// HTTP status.
	Send(ctx context.Context, envelope envelopeDomain.Envelope, accessToken string) ([]byte, error)
}

// SessionVault retains session keys between the outgoing request and a late
// counterparty callback, keyed by reference number.
type SessionVault interface {
	// Put stores the session key under the reference number for the vault TTL.
	Put(referenceNumber string, key envelopeDomain.SessionKey) error

	// Get returns the session key for the reference number, or
	// ErrSessionKeyNotFound if it expired or was never stored.
	Get(referenceNumber string) (envelopeDomain.SessionKey, error)

	// Delete removes the session key for the reference number.
	Delete(referenceNumber string)

	// Close stops the background janitor. The vault must not be used after.
	Close()
}

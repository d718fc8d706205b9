// Package domain defines the verification exchange entities: the audit record
// of every envelope round trip with the counterparty.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExchangeStatus classifies the outcome of a verification exchange.
type ExchangeStatus string

const (
	// ExchangeStatusSucceeded means the response was decrypted and returned.
	ExchangeStatusSucceeded ExchangeStatus = "succeeded"

	// ExchangeStatusFailed means the counterparty returned an explicit error
	// shape or the exchange could not be completed.
	ExchangeStatusFailed ExchangeStatus = "failed"

	// ExchangeStatusDegraded means every decryption strategy failed and the
	// raw response body was passed through.
	ExchangeStatusDegraded ExchangeStatus = "degraded"

	// ExchangeStatusUnavailable means the counterparty could not be reached.
	ExchangeStatusUnavailable ExchangeStatus = "unavailable"
)

// Exchange is the audit record of one envelope round trip. One row is written
// per exchange regardless of outcome; the record never contains the session
// key, the plaintext payload or the decrypted response.
type Exchange struct {
	ID               uuid.UUID
	RequestID        string
	ReferenceNumber  string
	TxnType          string
	TxnSubType       string
	Status           ExchangeStatus
	WrapScheme       string
	DecryptStrategy  string
	WasDecrypted     bool
	SignatureValid   bool
	ErrorCode        string
	ErrorDescription string
	Duration         time.Duration
	CreatedAt        time.Time
}

// NewExchange creates an exchange record with a fresh UUIDv7 identifier.
func NewExchange(requestID, referenceNumber, txnType, txnSubType string) (*Exchange, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Exchange{
		ID:              id,
		RequestID:       requestID,
		ReferenceNumber: referenceNumber,
		TxnType:         txnType,
		TxnSubType:      txnSubType,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Package usecase orchestrates verification exchanges: envelope construction,
// the counterparty round trip, response opening and audit persistence.
package usecase

import (
	"context"

	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

// ExchangeRepository defines persistence for exchange audit records.
// Implementations must support transaction-aware operations via context
// propagation.
type ExchangeRepository interface {
	// Create stores a new exchange record.
	Create(ctx context.Context, exchange *verificationDomain.Exchange) error

	// List retrieves exchange records newest first with pagination.
	List(ctx context.Context, offset, limit int) ([]*verificationDomain.Exchange, error)

	// GetByReferenceNumber retrieves the exchange for a reference number.
	// Returns ErrExchangeNotFound if none exists.
	GetByReferenceNumber(ctx context.Context, referenceNumber string) (*verificationDomain.Exchange, error)
}

// VerifyInput carries one verification request.
type VerifyInput struct {
	// RequestID is the inbound request identifier, recorded for correlation.
	RequestID string
	// Payload is the business payload forwarded as EIS_PAYLOAD.
	Payload any
	// TxnType and TxnSubType select the counterparty operation.
	TxnType    string
	TxnSubType string
	// AcceptDegraded opts in to receiving the raw response body when every
	// decryption strategy fails. Without it a degraded exchange is an error.
	AcceptDegraded bool
}

// VerifyOutput is the client-facing result of an exchange.
type VerifyOutput struct {
	ReferenceNumber  string
	Success          bool
	Data             map[string]any
	WasDecrypted     bool
	Degraded         bool
	SignatureValid   bool
	DecryptStrategy  string
	ErrorCode        string
	ErrorDescription string
}

// VerificationUseCase defines the verification exchange operations.
type VerificationUseCase interface {
	// Verify runs a full exchange: build the envelope, post it, open the
	// response. One audit record is written whatever the outcome. Returns
	// ErrCounterpartyUnavailable on transport failure and ErrDegradedResponse
	// when decryption fails without AcceptDegraded; a counterparty error
	// shape is a normal Success=false output, not an error.
	Verify(ctx context.Context, input *VerifyInput) (*VerifyOutput, error)

	// HandleCallback opens a counterparty-initiated response using the
	// session key retained in the vault for the reference number. Returns
	// ErrSessionKeyNotFound when the key expired or never existed.
	HandleCallback(ctx context.Context, referenceNumber string, body []byte) (*VerifyOutput, error)

	// ListExchanges retrieves audit records newest first.
	ListExchanges(ctx context.Context, offset, limit int) ([]*verificationDomain.Exchange, error)

	// GetExchange retrieves the audit record for a reference number.
	GetExchange(ctx context.Context, referenceNumber string) (*verificationDomain.Exchange, error)
}

package dto

import (
	"time"

	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
	verificationUseCase "github.com/pensionseva/eisgateway/internal/verification/usecase"
)

// VerificationResponse is the client-facing result of an exchange.
type VerificationResponse struct {
	ReferenceNumber  string         `json:"reference_number"`
	Success          bool           `json:"success"`
	Data             map[string]any `json:"data"`
	WasDecrypted     bool           `json:"was_decrypted"`
	Degraded         bool           `json:"degraded"`
	SignatureValid   bool           `json:"signature_valid"`
	DecryptStrategy  string         `json:"decrypt_strategy,omitempty"`
	ErrorCode        string         `json:"error_code,omitempty"`
	ErrorDescription string         `json:"error_description,omitempty"`
}

// NewVerificationResponse converts a use case output to its response form.
func NewVerificationResponse(output *verificationUseCase.VerifyOutput) *VerificationResponse {
	return &VerificationResponse{
		ReferenceNumber:  output.ReferenceNumber,
		Success:          output.Success,
		Data:             output.Data,
		WasDecrypted:     output.WasDecrypted,
		Degraded:         output.Degraded,
		SignatureValid:   output.SignatureValid,
		DecryptStrategy:  output.DecryptStrategy,
		ErrorCode:        output.ErrorCode,
		ErrorDescription: output.ErrorDescription,
	}
}

// ExchangeResponse is the audit view of one exchange.
type ExchangeResponse struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id,omitempty"`
	ReferenceNumber  string    `json:"reference_number"`
	TxnType          string    `json:"txn_type"`
	TxnSubType       string    `json:"txn_sub_type,omitempty"`
	Status           string    `json:"status"`
	WrapScheme       string    `json:"wrap_scheme,omitempty"`
	DecryptStrategy  string    `json:"decrypt_strategy,omitempty"`
	WasDecrypted     bool      `json:"was_decrypted"`
	SignatureValid   bool      `json:"signature_valid"`
	ErrorCode        string    `json:"error_code,omitempty"`
	ErrorDescription string    `json:"error_description,omitempty"`
	DurationMS       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewExchangeResponse converts an exchange record to its response form.
func NewExchangeResponse(exchange *verificationDomain.Exchange) *ExchangeResponse {
	return &ExchangeResponse{
		ID:               exchange.ID.String(),
		RequestID:        exchange.RequestID,
		ReferenceNumber:  exchange.ReferenceNumber,
		TxnType:          exchange.TxnType,
		TxnSubType:       exchange.TxnSubType,
		Status:           string(exchange.Status),
		WrapScheme:       exchange.WrapScheme,
		DecryptStrategy:  exchange.DecryptStrategy,
		WasDecrypted:     exchange.WasDecrypted,
		SignatureValid:   exchange.SignatureValid,
		ErrorCode:        exchange.ErrorCode,
		ErrorDescription: exchange.ErrorDescription,
		DurationMS:       exchange.Duration.Milliseconds(),
		CreatedAt:        exchange.CreatedAt,
	}
}

// ExchangeListResponse wraps a page of exchange records.
type ExchangeListResponse struct {
	Exchanges []*ExchangeResponse `json:"exchanges"`
	Offset    int                 `json:"offset"`
	Limit     int                 `json:"limit"`
}

// NewExchangeListResponse converts a page of exchange records.
func NewExchangeListResponse(exchanges []*verificationDomain.Exchange, offset, limit int) *ExchangeListResponse {
	items := make([]*ExchangeResponse, 0, len(exchanges))
	for _, exchange := range exchanges {
		items = append(items, NewExchangeResponse(exchange))
	}
	return &ExchangeListResponse{
		Exchanges: items,
		Offset:    offset,
		Limit:     limit,
	}
}

package domain

import (
	"fmt"

	apperrors "github.com/pensionseva/eisgateway/internal/errors"
)

// Verification domain errors. Each wraps a sentinel from internal/errors so
// handlers can map them to HTTP status codes without knowing this package.
var (
	// ErrExchangeNotFound indicates no exchange exists for the reference number.
	ErrExchangeNotFound = fmt.Errorf("exchange %w", apperrors.ErrNotFound)

	// ErrSessionKeyNotFound indicates the vault holds no session key for the
	// reference number, either because it expired or was never stored.
	ErrSessionKeyNotFound = fmt.Errorf("session key %w", apperrors.ErrNotFound)

	// ErrCounterpartyUnavailable indicates the counterparty endpoint could not
	// be reached or did not respond before the deadline.
	ErrCounterpartyUnavailable = fmt.Errorf("counterparty %w", apperrors.ErrUnavailable)

	// ErrDegradedResponse indicates every decryption strategy failed and the
	// caller did not opt in to receiving the raw response.
	ErrDegradedResponse = fmt.Errorf("degraded response %w", apperrors.ErrUnavailable)
)

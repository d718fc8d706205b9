package domain

// OpenedResponse is the terminal result of opening a counterparty response.
//
// The opener always returns a result object rather than an error, except for
// malformed-body decode failures. Protocol errors, degraded decryption and
// signature mismatches are all expressed through the flags below; callers
// above this layer decide whether a degraded or unverified response should
// be downgraded to an error for end users.
type OpenedResponse struct {
	// Success is false only for an explicit counterparty error response.
	Success bool

	// Data is the recovered response payload. In degraded mode it is the raw,
	// un-decrypted body; when the decrypted text is not valid JSON it is
	// wrapped as {"decryptedText": <string>}.
	Data map[string]any

	// WasDecrypted reports whether a decryption strategy actually recovered
	// the payload. False for plain bodies, error responses and degraded mode.
	WasDecrypted bool

	// DecryptStrategy records which fallback strategy succeeded. Diagnostics
	// only.
	DecryptStrategy DecryptStrategy

	// SignatureValid is the soft verification verdict over the decrypted
	// plaintext. A false value never blocks the data from being returned.
	SignatureValid bool

	// DecryptionError carries the final decryption failure when every
	// strategy failed (degraded mode). Empty otherwise.
	DecryptionError string

	// ErrorCode and ErrorDescription are populated for counterparty error
	// responses.
	ErrorCode        string
	ErrorDescription string
}

// Degraded reports whether the response body was encrypted but could not be
// decrypted by any strategy. Callers must opt in to consuming degraded data.
func (o OpenedResponse) Degraded() bool {
	return o.Success && !o.WasDecrypted && o.DecryptionError != ""
}

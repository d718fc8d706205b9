package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the outgoing wire object: the encrypted request plus its
// detached signature. The wrapped session key travels out of band in the
// AccessToken header, not in the body.
type Envelope struct {
	ReferenceNumber string `json:"REQUEST_REFERENCE_NUMBER"`
	Request         string `json:"REQUEST"`   // base64(ciphertext || 16-byte tag)
	DigiSign        string `json:"DIGI_SIGN"` // base64 PKCS#1v1.5 signature over the plaintext
}

// ResponseEnvelope is the decoded incoming wire object. The counterparty
// returns either an error shape (ErrorCode/ErrorDescription/ResponseStatus)
// or a success shape (Response/DigiSign/ReferenceNumber/ResponseDate); both
// are decoded from the same loose JSON body, with the full field set retained
// in Fields for the plain-body passthrough path.
type ResponseEnvelope struct {
	ErrorCode        string
	ErrorDescription string
	ResponseStatus   string
	Response         string
	DigiSign         string
	ReferenceNumber  string
	ResponseDate     string

	// Fields holds the complete decoded body.
	Fields map[string]any
}

// ParseResponseEnvelope decodes a counterparty response body. The body must
// be a JSON object; individual fields are optional.
func ParseResponseEnvelope(body []byte) (*ResponseEnvelope, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}

	return &ResponseEnvelope{
		ErrorCode:        stringField(fields, "ERROR_CODE"),
		ErrorDescription: stringField(fields, "ERROR_DESCRIPTION"),
		ResponseStatus:   stringField(fields, "RESPONSE_STATUS"),
		Response:         stringField(fields, "RESPONSE"),
		DigiSign:         stringField(fields, "DIGI_SIGN"),
		ReferenceNumber:  stringField(fields, "REQUEST_REFERENCE_NUMBER"),
		ResponseDate:     stringField(fields, "RESPONSE_DATE"),
		Fields:           fields,
	}, nil
}

// IsError reports whether the counterparty explicitly signalled failure.
func (r *ResponseEnvelope) IsError() bool {
	return r.ErrorCode != "" || r.ResponseStatus == ResponseStatusError
}

// IsPlain reports whether the body carries no encrypted payload at all, in
// which case the whole body is treated as already-plaintext.
func (r *ResponseEnvelope) IsPlain() bool {
	_, hasResponse := r.Fields["RESPONSE"]
	_, hasSign := r.Fields["DIGI_SIGN"]
	return !hasResponse && !hasSign
}

// stringField extracts a field as a string, tolerating numeric encodings
// (the counterparty has been observed emitting RESPONSE_STATUS both ways).
func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}

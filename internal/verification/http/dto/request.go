// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/pensionseva/eisgateway/internal/validation"
)

// VerifyRequest contains the parameters for running a verification exchange.
type VerifyRequest struct {
	// Payload is forwarded verbatim as the EIS_PAYLOAD of the plain request.
	Payload    json.RawMessage `json:"payload"`
	TxnType    string          `json:"txn_type"`
	TxnSubType string          `json:"txn_sub_type"`
	// AcceptDegraded opts in to receiving the raw response body when every
	// decryption strategy fails.
	AcceptDegraded bool `json:"accept_degraded"`
}

// Validate checks if the verify request is valid.
func (r *VerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Payload,
			validation.Required,
			validation.By(validateJSONObject),
		),
		validation.Field(&r.TxnType,
			validation.Required,
			customValidation.NotBlank,
			customValidation.TxnCode,
		),
		validation.Field(&r.TxnSubType,
			validation.Required,
			customValidation.NotBlank,
			customValidation.TxnCode,
		),
	)
}

// validateJSONObject requires the payload to be a JSON object.
func validateJSONObject(value interface{}) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		return validation.NewError("validation_payload_type", "must be a JSON value")
	}
	var object map[string]any
	if err := json.Unmarshal(raw, &object); err != nil {
		return validation.NewError("validation_payload", "must be a JSON object")
	}
	return nil
}

// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/pensionseva/eisgateway/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string contains at least one non-whitespace character.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// TxnCode validates that a string is an uppercase alphanumeric transaction
// code of at most 20 characters, matching what the counterparty accepts in
// TXN_TYPE and TXN_SUB_TYPE.
var TxnCode = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_txn_code_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > 20 {
		return validation.NewError("validation_txn_code_length", "must be at most 20 characters")
	}
	for _, c := range s {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return validation.NewError("validation_txn_code", "must contain only uppercase letters, digits and underscores")
		}
	}
	return nil
})

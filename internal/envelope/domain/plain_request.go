package domain

import (
	"encoding/json"
	"fmt"
)

// PlainRequest is the plaintext request record serialized to canonical JSON
// before any cryptographic operation.
//
// Field order is significant: the detached signature is computed over the
// exact serialized byte sequence, and encoding/json emits struct fields in
// declaration order, so the order below is part of the wire contract.
type PlainRequest struct {
	SourceID        string `json:"SOURCE_ID"`
	EISPayload      any    `json:"EIS_PAYLOAD"`
	ReferenceNumber string `json:"REQUEST_REFERENCE_NUMBER"`
	Destination     string `json:"DESTINATION"`
	TxnType         string `json:"TXN_TYPE"`
	TxnSubType      string `json:"TXN_SUB_TYPE"`
}

// CanonicalJSON serializes the request to the exact byte sequence that is
// encrypted and signed. Must be called once per exchange and the result
// reused for both operations.
func (p PlainRequest) CanonicalJSON() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize plain request: %w", err)
	}
	return data, nil
}

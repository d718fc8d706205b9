package domain

import (
	"fmt"
	"strings"
)

// ReferenceNumber is the 25-character correlation identifier carried on every
// outgoing request:
//
//	SBI + sourceId(2) + YY(2) + dayOfYear(3) + HHmmssSSS(9) + sequence(6)
//
// It is a correlation/audit token only, never cryptographic material.
// Collisions are theoretically possible (random sequence) but astronomically
// unlikely combined with the millisecond timestamp; uniqueness is not
// enforced or persisted.
type ReferenceNumber string

// String returns the reference number as a plain string.
func (r ReferenceNumber) String() string {
	return string(r)
}

// Validate checks the layout callers rely on: exact length and the
// "SBI" + sourceID prefix.
func (r ReferenceNumber) Validate(sourceID string) error {
	if len(r) != ReferenceNumberLength {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidReferenceNumber, len(r), ReferenceNumberLength)
	}
	if !strings.HasPrefix(string(r), ReferenceNumberPrefix+sourceID) {
		return fmt.Errorf("%w: must start with %q", ErrInvalidReferenceNumber, ReferenceNumberPrefix+sourceID)
	}
	return nil
}

package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

// referenceNumberGenerator produces 25-character reference numbers:
// SBI + sourceId(2) + YY(2) + dayOfYear(3) + HHmmssSSS(9) + sequence(6).
// The sequence digits come from crypto/rand; combined with the millisecond
// timestamp, collisions are astronomically unlikely and not enforced against.
type referenceNumberGenerator struct {
	sourceID string
	now      func() time.Time
}

// NewReferenceNumberGenerator creates a generator for the given two-character
// source identifier.
func NewReferenceNumberGenerator(sourceID string) (ReferenceNumberGenerator, error) {
	if len(sourceID) != 2 {
		return nil, fmt.Errorf("source id must be exactly 2 characters, got %q", sourceID)
	}
	return &referenceNumberGenerator{
		sourceID: sourceID,
		now:      time.Now,
	}, nil
}

// Generate produces a fresh reference number from the current time.
func (g *referenceNumberGenerator) Generate() (envelopeDomain.ReferenceNumber, error) {
	seq, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reference sequence: %w", err)
	}

	t := g.now()
	ref := fmt.Sprintf("%s%s%02d%03d%02d%02d%02d%03d%06d",
		envelopeDomain.ReferenceNumberPrefix,
		g.sourceID,
		t.Year()%100,
		t.YearDay(),
		t.Hour(),
		t.Minute(),
		t.Second(),
		t.Nanosecond()/int(time.Millisecond),
		seq.Int64(),
	)

	return envelopeDomain.ReferenceNumber(ref), nil
}

package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

func TestReferenceNumberGeneratorFormat(t *testing.T) {
	// 2024-10-17 is day 291; 14:35:07.123.
	fixed := time.Date(2024, time.October, 17, 14, 35, 7, 123*int(time.Millisecond), time.UTC)
	g := &referenceNumberGenerator{
		sourceID: "PV",
		now:      func() time.Time { return fixed },
	}

	ref, err := g.Generate()
	require.NoError(t, err)

	s := string(ref)
	assert.Len(t, s, envelopeDomain.ReferenceNumberLength)
	assert.True(t, strings.HasPrefix(s, "SBIPV24291143507123"), "got %q", s)
	assert.Regexp(t, regexp.MustCompile(`^SBIPV24291143507123\d{6}$`), s)
	require.NoError(t, ref.Validate("PV"))
}

func TestReferenceNumberGeneratorPadsComponents(t *testing.T) {
	// Early morning on January 5th exercises zero padding in every field.
	fixed := time.Date(2025, time.January, 5, 1, 2, 3, 4*int(time.Millisecond), time.UTC)
	g := &referenceNumberGenerator{
		sourceID: "PV",
		now:      func() time.Time { return fixed },
	}

	ref, err := g.Generate()
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^SBIPV25005010203004\d{6}$`), string(ref))
}

func TestReferenceNumberGeneratorDistinct(t *testing.T) {
	g, err := NewReferenceNumberGenerator("PV")
	require.NoError(t, err)

	seen := make(map[envelopeDomain.ReferenceNumber]bool)
	for i := 0; i < 100; i++ {
		ref, err := g.Generate()
		require.NoError(t, err)
		require.NoError(t, ref.Validate("PV"))
		assert.False(t, seen[ref], "duplicate reference number %q", ref)
		seen[ref] = true
	}
}

func TestNewReferenceNumberGeneratorRejectsBadSourceID(t *testing.T) {
	tests := []string{"", "P", "PVX"}
	for _, sourceID := range tests {
		_, err := NewReferenceNumberGenerator(sourceID)
		assert.Error(t, err, "source id %q", sourceID)
	}
}

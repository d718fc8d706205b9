package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
)

func TestBuilderBuild(t *testing.T) {
	b, _, key := newTestBuilder(t)
	ctx := context.Background()

	result, err := b.Build(ctx, PlainRequestFields{
		Payload:    map[string]any{"STATE": "DELHI", "REQ_DATE": "17-10-2024"},
		TxnType:    "PENSION",
		TxnSubType: "FETCH_DTLS",
	})
	require.NoError(t, err)

	// Reference number layout and envelope completeness.
	assert.Len(t, result.Envelope.ReferenceNumber, envelopeDomain.ReferenceNumberLength)
	assert.True(t, strings.HasPrefix(result.Envelope.ReferenceNumber, "SBIPV"))
	assert.NotEmpty(t, result.Envelope.Request)
	assert.NotEmpty(t, result.Envelope.DigiSign)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, envelopeDomain.WrapOAEPSHA256, result.WrapScheme)
	require.NoError(t, result.SessionKey.Validate())

	// The plaintext is the canonical serialization with the generated
	// reference number injected.
	var plain map[string]any
	require.NoError(t, json.Unmarshal(result.Plaintext, &plain))
	assert.Equal(t, "PV", plain["SOURCE_ID"])
	assert.Equal(t, "EIS", plain["DESTINATION"])
	assert.Equal(t, result.Envelope.ReferenceNumber, plain["REQUEST_REFERENCE_NUMBER"])
	assert.Equal(t, "PENSION", plain["TXN_TYPE"])
	assert.Equal(t, "FETCH_DTLS", plain["TXN_SUB_TYPE"])

	// The ciphertext decrypts back to the exact signed bytes.
	cipher := envelopeService.NewSymmetricCipher()
	decrypted, err := cipher.Decrypt(result.Envelope.Request, result.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, result.Plaintext, decrypted)

	// Playing the counterparty: the AccessToken unwraps to the session key
	// and the signature verifies over the plaintext.
	wrapper := envelopeService.NewKeyWrapper(discardLogger())
	unwrapped, _, err := wrapper.Unwrap(result.AccessToken, key)
	require.NoError(t, err)
	assert.Equal(t, result.SessionKey, unwrapped)

	signer := envelopeService.NewSigner(discardLogger())
	assert.True(t, signer.Verify(result.Plaintext, result.Envelope.DigiSign, &key.PublicKey))
}

func TestBuilderBuildFreshKeyAndReferencePerCall(t *testing.T) {
	b, _, _ := newTestBuilder(t)
	ctx := context.Background()
	fields := PlainRequestFields{Payload: map[string]any{"STATE": "DELHI"}, TxnType: "PENSION", TxnSubType: "FETCH"}

	first, err := b.Build(ctx, fields)
	require.NoError(t, err)
	second, err := b.Build(ctx, fields)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionKey, second.SessionKey)
	assert.NotEqual(t, first.Envelope.ReferenceNumber, second.Envelope.ReferenceNumber)
	assert.NotEqual(t, first.Envelope.Request, second.Envelope.Request)
}

func TestBuilderBuildStepFailures(t *testing.T) {
	km, _ := newTestKeyMaterial(t)
	references, err := envelopeService.NewReferenceNumberGenerator("PV")
	require.NoError(t, err)
	ctx := context.Background()
	fields := PlainRequestFields{Payload: map[string]any{"STATE": "DELHI"}, TxnType: "PENSION", TxnSubType: "FETCH"}

	t.Run("session key generation fails", func(t *testing.T) {
		b := NewBuilder(
			km,
			failingSessionKeys{},
			envelopeService.NewSymmetricCipher(),
			envelopeService.NewKeyWrapper(discardLogger()),
			envelopeService.NewSigner(discardLogger()),
			references,
			"PV", "EIS", discardLogger(),
		)
		_, err := b.Build(ctx, fields)
		require.Error(t, err)
		assert.ErrorIs(t, err, envelopeDomain.ErrEnvelopeBuildFailed)
		assert.Contains(t, err.Error(), "generate session key")
	})

	t.Run("reference generation fails", func(t *testing.T) {
		b := NewBuilder(
			km,
			envelopeService.NewSessionKeyGenerator(),
			envelopeService.NewSymmetricCipher(),
			envelopeService.NewKeyWrapper(discardLogger()),
			envelopeService.NewSigner(discardLogger()),
			failingReferences{},
			"PV", "EIS", discardLogger(),
		)
		_, err := b.Build(ctx, fields)
		require.Error(t, err)
		assert.ErrorIs(t, err, envelopeDomain.ErrEnvelopeBuildFailed)
		assert.Contains(t, err.Error(), "generate reference number")
	})

	t.Run("unserializable payload fails", func(t *testing.T) {
		b := NewBuilder(
			km,
			envelopeService.NewSessionKeyGenerator(),
			envelopeService.NewSymmetricCipher(),
			envelopeService.NewKeyWrapper(discardLogger()),
			envelopeService.NewSigner(discardLogger()),
			references,
			"PV", "EIS", discardLogger(),
		)
		_, err := b.Build(ctx, PlainRequestFields{Payload: make(chan int), TxnType: "PENSION", TxnSubType: "FETCH"})
		require.Error(t, err)
		assert.ErrorIs(t, err, envelopeDomain.ErrEnvelopeBuildFailed)
		assert.Contains(t, err.Error(), "serialize plain request")
	})
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
)

// builder implements Builder over the envelope service primitives.
//
// All dependencies are immutable after construction, so one builder serves
// concurrent exchanges without locking.
type builder struct {
	keyMaterial *envelopeService.KeyMaterial
	sessionKeys envelopeService.SessionKeyGenerator
	cipher      envelopeService.SymmetricCipher
	wrapper     envelopeService.KeyWrapper
	signer      envelopeService.Signer
	references  envelopeService.ReferenceNumberGenerator
	sourceID    string
	destination string
	logger      *slog.Logger
}

// NewBuilder creates an envelope builder.
func NewBuilder(
	keyMaterial *envelopeService.KeyMaterial,
	sessionKeys envelopeService.SessionKeyGenerator,
	cipher envelopeService.SymmetricCipher,
	wrapper envelopeService.KeyWrapper,
	signer envelopeService.Signer,
	references envelopeService.ReferenceNumberGenerator,
	sourceID string,
	destination string,
	logger *slog.Logger,
) Builder {
	return &builder{
		keyMaterial: keyMaterial,
		sessionKeys: sessionKeys,
		cipher:      cipher,
		wrapper:     wrapper,
		signer:      signer,
		references:  references,
		sourceID:    sourceID,
		destination: destination,
		logger:      logger,
	}
}

// Build assembles an outgoing envelope. The step order is fixed by the
// protocol; no step may be skipped or reordered.
func (b *builder) Build(ctx context.Context, fields PlainRequestFields) (BuildResult, error) {
	// Step 1: generate the reference number and inject it into the request.
	reference, err := b.references.Generate()
	if err != nil {
		return BuildResult{}, buildError("generate reference number", err)
	}

	plainRequest := envelopeDomain.PlainRequest{
		SourceID:        b.sourceID,
		EISPayload:      fields.Payload,
		ReferenceNumber: reference.String(),
		Destination:     b.destination,
		TxnType:         fields.TxnType,
		TxnSubType:      fields.TxnSubType,
	}

	// Step 2: serialize to the canonical byte sequence. The same bytes are
	// encrypted and signed; re-serializing between steps would risk a
	// signature over different bytes than the ciphertext carries.
	plaintext, err := plainRequest.CanonicalJSON()
	if err != nil {
		return BuildResult{}, buildError("serialize plain request", err)
	}

	// Step 3: fresh single-use session key.
	sessionKey, err := b.sessionKeys.Generate()
	if err != nil {
		return BuildResult{}, buildError("generate session key", err)
	}

	// Step 4: encrypt the payload.
	ciphertext, err := b.cipher.Encrypt(plaintext, sessionKey)
	if err != nil {
		return BuildResult{}, buildError("encrypt payload", err)
	}

	// Step 5: sign the plaintext.
	signature, err := b.signer.Sign(plaintext, b.keyMaterial.PrivateKey())
	if err != nil {
		return BuildResult{}, buildError("sign payload", err)
	}

	// Step 6: wrap the session key for the counterparty.
	counterpartyKey, err := b.keyMaterial.CounterpartyPublicKey()
	if err != nil {
		return BuildResult{}, buildError("wrap session key", err)
	}
	accessToken, scheme, err := b.wrapper.Wrap(sessionKey, counterpartyKey)
	if err != nil {
		return BuildResult{}, buildError("wrap session key", err)
	}

	// Step 7: assemble.
	result := BuildResult{
		Envelope: envelopeDomain.Envelope{
			ReferenceNumber: reference.String(),
			Request:         ciphertext,
			DigiSign:        signature,
		},
		SessionKey:  sessionKey,
		AccessToken: accessToken,
		Plaintext:   plaintext,
		WrapScheme:  scheme,
	}

	b.logger.Debug("envelope built",
		slog.String("reference_number", reference.String()),
		slog.String("wrap_scheme", string(scheme)),
	)

	return result, nil
}

// buildError tags a step failure; no partial envelope accompanies it.
func buildError(step string, err error) error {
	return fmt.Errorf("%w at step %q: %v", envelopeDomain.ErrEnvelopeBuildFailed, step, err)
}

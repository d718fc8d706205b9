package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
)

// opener implements Opener as a small state machine over the response body:
// Error and Plain bodies terminate immediately; encrypted bodies walk an
// ordered list of decryption strategies, falling back to the permissive
// degraded mode when every strategy fails.
type opener struct {
	keyMaterial *envelopeService.KeyMaterial
	cipher      envelopeService.SymmetricCipher
	wrapper     envelopeService.KeyWrapper
	signer      envelopeService.Signer
	logger      *slog.Logger
}

// NewOpener creates an envelope opener.
func NewOpener(
	keyMaterial *envelopeService.KeyMaterial,
	cipher envelopeService.SymmetricCipher,
	wrapper envelopeService.KeyWrapper,
	signer envelopeService.Signer,
	logger *slog.Logger,
) Opener {
	return &opener{
		keyMaterial: keyMaterial,
		cipher:      cipher,
		wrapper:     wrapper,
		signer:      signer,
		logger:      logger,
	}
}

// decryptAttempt pairs a strategy tag with its decryption function.
type decryptAttempt struct {
	strategy envelopeDomain.DecryptStrategy
	run      func(ciphertext string, key envelopeDomain.SessionKey) ([]byte, error)
}

// Open recovers the plaintext response. See the Opener interface for the
// state machine; the fallback chain is an explicit ordered fold recording
// which strategy succeeded rather than nested error handlers.
func (o *opener) Open(
	ctx context.Context,
	body []byte,
	sessionKey envelopeDomain.SessionKey,
	opts ...OpenOption,
) (envelopeDomain.OpenedResponse, error) {
	options := openOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	response, err := envelopeDomain.ParseResponseEnvelope(body)
	if err != nil {
		return envelopeDomain.OpenedResponse{}, err
	}

	// Explicit counterparty error: a normal, expected outcome.
	if response.IsError() {
		return envelopeDomain.OpenedResponse{
			Success:          false,
			Data:             response.Fields,
			ErrorCode:        response.ErrorCode,
			ErrorDescription: response.ErrorDescription,
		}, nil
	}

	// No encrypted payload at all: the whole body is already plaintext.
	if response.IsPlain() {
		return envelopeDomain.OpenedResponse{
			Success:      true,
			Data:         response.Fields,
			WasDecrypted: false,
		}, nil
	}

	plaintext, strategy, decryptErr := o.runDecryptChain(response.Response, sessionKey)

	// Extension point: some call variants return a counterparty-issued
	// wrapped key in the response AccessToken header. Only consulted after
	// the caller's own key has failed every attempt.
	if decryptErr != nil && options.wrappedResponseKey != "" {
		if responseKey, scheme, unwrapErr := o.wrapper.Unwrap(
			options.wrappedResponseKey, o.keyMaterial.PrivateKey(),
		); unwrapErr == nil {
			o.logger.Debug("retrying decryption with response-supplied session key",
				slog.String("unwrap_scheme", string(scheme)),
			)
			plaintext, strategy, decryptErr = o.runDecryptChain(response.Response, responseKey)
		} else {
			o.logger.Warn("failed to unwrap response-supplied session key",
				slog.Any("error", unwrapErr),
			)
		}
	}

	// Degraded mode: every strategy failed. Deliberately permissive — the
	// raw body is returned as best-effort plaintext and the caller decides
	// whether to accept it. Loudly flagged as a data-integrity concern.
	if decryptErr != nil {
		o.logger.Warn("all decryption strategies failed, returning raw response body",
			slog.String("reference_number", response.ReferenceNumber),
			slog.Any("error", decryptErr),
		)
		return envelopeDomain.OpenedResponse{
			Success:         true,
			Data:            response.Fields,
			WasDecrypted:    false,
			DecryptionError: decryptErr.Error(),
		}, nil
	}

	// Decrypted text is usually JSON; wrap it verbatim when it is not.
	var data map[string]any
	if err := json.Unmarshal(plaintext, &data); err != nil {
		data = map[string]any{"decryptedText": string(plaintext)}
	}

	return envelopeDomain.OpenedResponse{
		Success:         true,
		Data:            data,
		WasDecrypted:    true,
		DecryptStrategy: strategy,
		SignatureValid:  o.verifySignature(plaintext, response.DigiSign),
	}, nil
}

// runDecryptChain folds over the ordered strategy list, stopping at the
// first success and reporting which strategy it was.
func (o *opener) runDecryptChain(
	ciphertext string,
	key envelopeDomain.SessionKey,
) ([]byte, envelopeDomain.DecryptStrategy, error) {
	attempts := []decryptAttempt{
		// Primary: AES-GCM with the key-derived nonce.
		{envelopeDomain.StrategyGCM, o.cipher.Decrypt},
		// Explicit second GCM attempt. In effect a duplicate of the first,
		// kept because some transport paths swallow the auth tag and the
		// integration notes require the retry as its own step.
		{envelopeDomain.StrategyGCMRetry, o.cipher.Decrypt},
		// Legacy compatibility: plain AES-CBC, IV = first 16 key bytes.
		{envelopeDomain.StrategyCBCLegacy, o.cipher.DecryptCBC},
	}

	var lastErr error
	for _, attempt := range attempts {
		plaintext, err := attempt.run(ciphertext, key)
		if err != nil {
			o.logger.Debug("decryption strategy failed",
				slog.String("strategy", string(attempt.strategy)),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}
		return plaintext, attempt.strategy, nil
	}

	return nil, envelopeDomain.StrategyNone, lastErr
}

// verifySignature runs the soft verification over the decrypted plaintext.
// A failure never blocks the data from being returned.
func (o *opener) verifySignature(plaintext []byte, signature string) bool {
	if signature == "" {
		return false
	}

	counterpartyKey, err := o.keyMaterial.CounterpartyPublicKey()
	if err != nil {
		o.logger.Warn("signature verification skipped: no counterparty RSA key",
			slog.Any("error", err),
		)
		return false
	}

	return o.signer.Verify(plaintext, signature, counterpartyKey)
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	envelopeUsecase "github.com/pensionseva/eisgateway/internal/envelope/usecase"
	apperrors "github.com/pensionseva/eisgateway/internal/errors"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
	verificationService "github.com/pensionseva/eisgateway/internal/verification/service"
)

// verificationUseCase implements VerificationUseCase.
type verificationUseCase struct {
	builder   envelopeUsecase.Builder
	opener    envelopeUsecase.Opener
	client    verificationService.EISClient
	vault     verificationService.SessionVault
	exchanges ExchangeRepository
	logger    *slog.Logger
}

// NewVerificationUseCase creates the verification use case.
func NewVerificationUseCase(
	builder envelopeUsecase.Builder,
	opener envelopeUsecase.Opener,
	client verificationService.EISClient,
	vault verificationService.SessionVault,
	exchanges ExchangeRepository,
	logger *slog.Logger,
) VerificationUseCase {
	return &verificationUseCase{
		builder:   builder,
		opener:    opener,
		client:    client,
		vault:     vault,
		exchanges: exchanges,
		logger:    logger,
	}
}

// Verify runs a full verification exchange.
func (v *verificationUseCase) Verify(ctx context.Context, input *VerifyInput) (*VerifyOutput, error) {
	start := time.Now()

	built, err := v.builder.Build(ctx, envelopeUsecase.PlainRequestFields{
		Payload:    input.Payload,
		TxnType:    input.TxnType,
		TxnSubType: input.TxnSubType,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build envelope")
	}

	reference := built.Envelope.ReferenceNumber

	// Retain the session key so a late callback for this reference number can
	// still be decrypted.
	if err := v.vault.Put(reference, built.SessionKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to retain session key")
	}

	exchange, err := verificationDomain.NewExchange(input.RequestID, reference, input.TxnType, input.TxnSubType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create exchange record")
	}
	exchange.WrapScheme = string(built.WrapScheme)

	body, err := v.client.Send(ctx, built.Envelope, built.AccessToken)
	if err != nil {
		exchange.Status = verificationDomain.ExchangeStatusUnavailable
		exchange.ErrorDescription = err.Error()
		exchange.Duration = time.Since(start)
		v.record(ctx, exchange)
		return nil, err
	}

	opened, err := v.opener.Open(ctx, body, built.SessionKey)
	if err != nil {
		// A body that is not even a JSON object means the counterparty
		// answered with something outside the protocol.
		exchange.Status = verificationDomain.ExchangeStatusUnavailable
		exchange.ErrorDescription = err.Error()
		exchange.Duration = time.Since(start)
		v.record(ctx, exchange)
		return nil, apperrors.Wrap(verificationDomain.ErrCounterpartyUnavailable, err.Error())
	}

	applyOpened(exchange, &opened)
	exchange.Duration = time.Since(start)
	v.record(ctx, exchange)

	if opened.Degraded() && !input.AcceptDegraded {
		return nil, verificationDomain.ErrDegradedResponse
	}

	// Degraded exchanges keep their vault entry: a later callback may carry
	// a decryptable copy of the same response.
	if !opened.Degraded() {
		v.vault.Delete(reference)
	}

	return outputFromOpened(reference, &opened), nil
}

// HandleCallback opens a counterparty-initiated response for an earlier
// exchange.
func (v *verificationUseCase) HandleCallback(
	ctx context.Context,
	referenceNumber string,
	body []byte,
) (*VerifyOutput, error) {
	start := time.Now()

	sessionKey, err := v.vault.Get(referenceNumber)
	if err != nil {
		return nil, err
	}

	opened, err := v.opener.Open(ctx, body, sessionKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	exchange, err := verificationDomain.NewExchange("", referenceNumber, "CALLBACK", "")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create exchange record")
	}
	applyOpened(exchange, &opened)
	exchange.Duration = time.Since(start)
	v.record(ctx, exchange)

	if opened.WasDecrypted {
		v.vault.Delete(referenceNumber)
	}

	return outputFromOpened(referenceNumber, &opened), nil
}

// ListExchanges retrieves audit records newest first.
func (v *verificationUseCase) ListExchanges(
	ctx context.Context,
	offset, limit int,
) ([]*verificationDomain.Exchange, error) {
	return v.exchanges.List(ctx, offset, limit)
}

// GetExchange retrieves the audit record for a reference number.
func (v *verificationUseCase) GetExchange(
	ctx context.Context,
	referenceNumber string,
) (*verificationDomain.Exchange, error) {
	return v.exchanges.GetByReferenceNumber(ctx, referenceNumber)
}

// record persists the audit row. Persistence failure is logged, never fatal:
// the exchange outcome outranks its audit trail.
func (v *verificationUseCase) record(ctx context.Context, exchange *verificationDomain.Exchange) {
	if err := v.exchanges.Create(ctx, exchange); err != nil {
		v.logger.Error("failed to persist exchange record",
			slog.String("reference_number", exchange.ReferenceNumber),
			slog.Any("error", err),
		)
	}
}

// applyOpened copies the opened-response verdict onto the exchange record.
func applyOpened(exchange *verificationDomain.Exchange, opened *envelopeDomain.OpenedResponse) {
	exchange.WasDecrypted = opened.WasDecrypted
	exchange.SignatureValid = opened.SignatureValid
	exchange.DecryptStrategy = string(opened.DecryptStrategy)
	exchange.ErrorCode = opened.ErrorCode
	exchange.ErrorDescription = opened.ErrorDescription

	switch {
	case !opened.Success:
		exchange.Status = verificationDomain.ExchangeStatusFailed
	case opened.Degraded():
		exchange.Status = verificationDomain.ExchangeStatusDegraded
		exchange.ErrorDescription = opened.DecryptionError
	default:
		exchange.Status = verificationDomain.ExchangeStatusSucceeded
	}
}

func outputFromOpened(referenceNumber string, opened *envelopeDomain.OpenedResponse) *VerifyOutput {
	return &VerifyOutput{
		ReferenceNumber:  referenceNumber,
		Success:          opened.Success,
		Data:             opened.Data,
		WasDecrypted:     opened.WasDecrypted,
		Degraded:         opened.Degraded(),
		SignatureValid:   opened.SignatureValid,
		DecryptStrategy:  string(opened.DecryptStrategy),
		ErrorCode:        opened.ErrorCode,
		ErrorDescription: opened.ErrorDescription,
	}
}

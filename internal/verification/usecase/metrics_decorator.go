package usecase

import (
	"context"
	"time"

	"github.com/pensionseva/eisgateway/internal/metrics"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

// verificationUseCaseWithMetrics decorates VerificationUseCase with metrics
// instrumentation.
type verificationUseCaseWithMetrics struct {
	next    VerificationUseCase
	metrics metrics.BusinessMetrics
}

// NewVerificationUseCaseWithMetrics wraps a VerificationUseCase with metrics
// recording.
func NewVerificationUseCaseWithMetrics(
	useCase VerificationUseCase,
	m metrics.BusinessMetrics,
) VerificationUseCase {
	return &verificationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Verify records metrics for verification exchanges, distinguishing degraded
// outcomes from plain successes and errors.
func (v *verificationUseCaseWithMetrics) Verify(ctx context.Context, input *VerifyInput) (*VerifyOutput, error) {
	start := time.Now()
	output, err := v.next.Verify(ctx, input)

	v.recordOutcome(ctx, "verify", output, err, start)
	return output, err
}

// HandleCallback records metrics for callback openings.
func (v *verificationUseCaseWithMetrics) HandleCallback(
	ctx context.Context,
	referenceNumber string,
	body []byte,
) (*VerifyOutput, error) {
	start := time.Now()
	output, err := v.next.HandleCallback(ctx, referenceNumber, body)

	v.recordOutcome(ctx, "callback", output, err, start)
	return output, err
}

// ListExchanges records metrics for audit listing.
func (v *verificationUseCaseWithMetrics) ListExchanges(
	ctx context.Context,
	offset, limit int,
) ([]*verificationDomain.Exchange, error) {
	start := time.Now()
	exchanges, err := v.next.ListExchanges(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}
	v.metrics.RecordOperation(ctx, "verification", "exchange_list", status)
	v.metrics.RecordDuration(ctx, "verification", "exchange_list", time.Since(start), status)

	return exchanges, err
}

// GetExchange records metrics for audit retrieval.
func (v *verificationUseCaseWithMetrics) GetExchange(
	ctx context.Context,
	referenceNumber string,
) (*verificationDomain.Exchange, error) {
	start := time.Now()
	exchange, err := v.next.GetExchange(ctx, referenceNumber)

	status := "success"
	if err != nil {
		status = "error"
	}
	v.metrics.RecordOperation(ctx, "verification", "exchange_get", status)
	v.metrics.RecordDuration(ctx, "verification", "exchange_get", time.Since(start), status)

	return exchange, err
}

func (v *verificationUseCaseWithMetrics) recordOutcome(
	ctx context.Context,
	operation string,
	output *VerifyOutput,
	err error,
	start time.Time,
) {
	status := "success"
	switch {
	case err != nil:
		status = "error"
	case output.Degraded:
		status = "degraded"
	case output.WasDecrypted && !output.SignatureValid:
		status = "signature_invalid"
	case !output.Success:
		status = "counterparty_error"
	}

	v.metrics.RecordOperation(ctx, "verification", operation, status)
	v.metrics.RecordDuration(ctx, "verification", operation, time.Since(start), status)
}

package usecase

import (
	"context"
	"time"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	"github.com/pensionseva/eisgateway/internal/metrics"
)

// builderWithMetrics decorates Builder with metrics instrumentation.
type builderWithMetrics struct {
	next    Builder
	metrics metrics.BusinessMetrics
}

// NewBuilderWithMetrics wraps a Builder with metrics recording.
func NewBuilderWithMetrics(builder Builder, m metrics.BusinessMetrics) Builder {
	return &builderWithMetrics{
		next:    builder,
		metrics: m,
	}
}

// Build records metrics for envelope construction.
func (b *builderWithMetrics) Build(ctx context.Context, fields PlainRequestFields) (BuildResult, error) {
	start := time.Now()
	result, err := b.next.Build(ctx, fields)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "envelope", "build", status)
	b.metrics.RecordDuration(ctx, "envelope", "build", time.Since(start), status)

	return result, err
}

// openerWithMetrics decorates Opener with metrics instrumentation. Besides
// the plain success/error status it surfaces the protocol-level outcomes
// (degraded decryption, signature mismatch) that the permissive opener never
// expresses as errors.
type openerWithMetrics struct {
	next    Opener
	metrics metrics.BusinessMetrics
}

// NewOpenerWithMetrics wraps an Opener with metrics recording.
func NewOpenerWithMetrics(opener Opener, m metrics.BusinessMetrics) Opener {
	return &openerWithMetrics{
		next:    opener,
		metrics: m,
	}
}

// Open records metrics for response opening.
func (o *openerWithMetrics) Open(
	ctx context.Context,
	body []byte,
	sessionKey envelopeDomain.SessionKey,
	opts ...OpenOption,
) (envelopeDomain.OpenedResponse, error) {
	start := time.Now()
	result, err := o.next.Open(ctx, body, sessionKey, opts...)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case result.Degraded():
		status = "degraded"
	case result.WasDecrypted && !result.SignatureValid:
		status = "signature_invalid"
	}

	o.metrics.RecordOperation(ctx, "envelope", "open", status)
	o.metrics.RecordDuration(ctx, "envelope", "open", time.Since(start), status)

	return result, err
}

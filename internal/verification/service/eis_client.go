package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

// maxResponseBytes bounds how much of a counterparty response is read.
const maxResponseBytes = 4 << 20

// httpEISClient implements EISClient over net/http.
type httpEISClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewEISClient creates an EISClient posting to baseURL+requestPath with the
// given per-request timeout.
func NewEISClient(baseURL, requestPath string, timeout time.Duration, logger *slog.Logger) EISClient {
	return &httpEISClient{
		endpoint: baseURL + requestPath,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Send posts the envelope and returns the raw response body. Any HTTP status
// is a protocol-level answer for the opener; only failing to get a response
// at all is a transport error.
func (e *httpEISClient) Send(
	ctx context.Context,
	envelope envelopeDomain.Envelope,
	accessToken string,
) ([]byte, error) {
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("AccessToken", accessToken)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verificationDomain.ErrCounterpartyUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", verificationDomain.ErrCounterpartyUnavailable, err)
	}

	e.logger.Debug("counterparty exchange completed",
		slog.String("reference_number", envelope.ReferenceNumber),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return responseBody, nil
}

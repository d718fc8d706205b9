package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

type recordedOperation struct {
	domain    string
	operation string
	status    string
}

type fakeBusinessMetrics struct {
	operations []recordedOperation
	durations  []recordedOperation
}

func (f *fakeBusinessMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	f.operations = append(f.operations, recordedOperation{domain, operation, status})
}

func (f *fakeBusinessMetrics) RecordDuration(
	_ context.Context,
	domain, operation string,
	_ time.Duration,
	status string,
) {
	f.durations = append(f.durations, recordedOperation{domain, operation, status})
}

func TestVerificationMetricsDecoratorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		opened     envelopeDomain.OpenedResponse
		wantStatus string
	}{
		{
			name: "success",
			opened: envelopeDomain.OpenedResponse{
				Success: true, Data: map[string]any{}, WasDecrypted: true, SignatureValid: true,
			},
			wantStatus: "success",
		},
		{
			name: "signature invalid",
			opened: envelopeDomain.OpenedResponse{
				Success: true, Data: map[string]any{}, WasDecrypted: true, SignatureValid: false,
			},
			wantStatus: "signature_invalid",
		},
		{
			name: "degraded",
			opened: envelopeDomain.OpenedResponse{
				Success: true, Data: map[string]any{}, WasDecrypted: false, DecryptionError: "tag mismatch",
			},
			wantStatus: "degraded",
		},
		{
			name: "counterparty error",
			opened: envelopeDomain.OpenedResponse{
				Success: false, Data: map[string]any{}, ErrorCode: "SI411",
			},
			wantStatus: "counterparty_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := NewVerificationUseCase(
				&stubBuilder{result: successBuildResult()},
				&stubOpener{opened: tt.opened},
				&stubClient{body: []byte(`{}`)},
				newFakeVault(),
				&fakeExchangeRepository{},
				discardLogger(),
			)
			m := &fakeBusinessMetrics{}
			uc := NewVerificationUseCaseWithMetrics(inner, m)

			input := verifyInput()
			input.AcceptDegraded = true
			_, err := uc.Verify(context.Background(), input)
			require.NoError(t, err)

			require.Len(t, m.operations, 1)
			assert.Equal(t, recordedOperation{"verification", "verify", tt.wantStatus}, m.operations[0])
			require.Len(t, m.durations, 1)
			assert.Equal(t, tt.wantStatus, m.durations[0].status)
		})
	}
}

func TestVerificationMetricsDecoratorError(t *testing.T) {
	inner := NewVerificationUseCase(
		&stubBuilder{result: successBuildResult()},
		&stubOpener{},
		&stubClient{err: verificationDomain.ErrCounterpartyUnavailable},
		newFakeVault(),
		&fakeExchangeRepository{},
		discardLogger(),
	)
	m := &fakeBusinessMetrics{}
	uc := NewVerificationUseCaseWithMetrics(inner, m)

	_, err := uc.Verify(context.Background(), verifyInput())
	require.Error(t, err)

	require.Len(t, m.operations, 1)
	assert.Equal(t, "error", m.operations[0].status)
}

func TestVerificationMetricsDecoratorQueries(t *testing.T) {
	inner := NewVerificationUseCase(
		&stubBuilder{}, &stubOpener{}, &stubClient{}, newFakeVault(),
		&fakeExchangeRepository{exchanges: []*verificationDomain.Exchange{{ReferenceNumber: testReference}}},
		discardLogger(),
	)
	m := &fakeBusinessMetrics{}
	uc := NewVerificationUseCaseWithMetrics(inner, m)

	_, err := uc.ListExchanges(context.Background(), 0, 10)
	require.NoError(t, err)
	_, err = uc.GetExchange(context.Background(), testReference)
	require.NoError(t, err)

	require.Len(t, m.operations, 2)
	assert.Equal(t, "exchange_list", m.operations[0].operation)
	assert.Equal(t, "exchange_get", m.operations[1].operation)
}

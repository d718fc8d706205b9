package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/allisson/go-pwdhash"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensionseva/eisgateway/internal/config"
	"github.com/pensionseva/eisgateway/internal/metrics"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
	verificationHTTP "github.com/pensionseva/eisgateway/internal/verification/http"
	verificationUseCase "github.com/pensionseva/eisgateway/internal/verification/usecase"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBody(s string) io.Reader {
	return strings.NewReader(s)
}

// stubUseCase satisfies the verification use case interface with canned
// results so the router can be exercised without real dependencies.
type stubUseCase struct{}

func (s *stubUseCase) Verify(ctx context.Context, input *verificationUseCase.VerifyInput) (*verificationUseCase.VerifyOutput, error) {
	return &verificationUseCase.VerifyOutput{
		ReferenceNumber: "SBIPV24291143507123000001",
		Success:         true,
		WasDecrypted:    true,
		SignatureValid:  true,
		DecryptStrategy: "gcm",
		Data:            map[string]any{"STATUS": "OK"},
	}, nil
}

func (s *stubUseCase) HandleCallback(ctx context.Context, referenceNumber string, body []byte) (*verificationUseCase.VerifyOutput, error) {
	return &verificationUseCase.VerifyOutput{ReferenceNumber: referenceNumber, Success: true}, nil
}

func (s *stubUseCase) ListExchanges(ctx context.Context, offset, limit int) ([]*verificationDomain.Exchange, error) {
	return []*verificationDomain.Exchange{}, nil
}

func (s *stubUseCase) GetExchange(ctx context.Context, referenceNumber string) (*verificationDomain.Exchange, error) {
	return nil, verificationDomain.ErrExchangeNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		ServerHost: "localhost",
		ServerPort: 8080,
		LogLevel:   "info",
	}
}

func createTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	handler := verificationHTTP.NewVerificationHandler(&stubUseCase{}, discardLogger())
	return NewRouter(cfg, handler, nil, discardLogger())
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := createTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

func TestRouter_ReadyEndpoint(t *testing.T) {
	router := createTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ready", response["status"])
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	router := createTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestRouter_RouteTable verifies every route is registered and reachable.
func TestRouter_RouteTable(t *testing.T) {
	router := createTestRouter(t, testConfig())

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "verify",
			method:     http.MethodPost,
			path:       "/v1/verifications",
			body:       `{"payload":{"STATE":"DELHI"},"txn_type":"PENSION","txn_sub_type":"FETCH_DTLS"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "callback",
			method:     http.MethodPost,
			path:       "/v1/verifications/callback/SBIPV24291143507123000001",
			body:       `{"RESPONSE":"abc"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "list exchanges",
			method:     http.MethodGet,
			path:       "/v1/exchanges",
			wantStatus: http.StatusOK,
		},
		{
			name:       "get exchange not found",
			method:     http.MethodGet,
			path:       "/v1/exchanges/SBIPV24291143507123000001",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, newBody(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestRouter_APIKeyProtectsRoutes verifies that configuring an API key hash
// locks the authenticated group while leaving health and callbacks open.
func TestRouter_APIKeyProtectsRoutes(t *testing.T) {
	cfg := testConfig()
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	require.NoError(t, err)
	hash, err := hasher.Hash([]byte("gateway-api-key"))
	require.NoError(t, err)
	cfg.APIKeyHash = hash

	router := createTestRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/exchanges", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays open.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// The callback route stays open for the counterparty.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/verifications/callback/SBIPV24291143507123000001", newBody(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDMiddleware_HeaderPresent(t *testing.T) {
	router := createTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, requestID)

	parsedUUID, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

// TestServer_NoMetricsEndpoint verifies the main server does not expose /metrics.
func TestServer_NoMetricsEndpoint(t *testing.T) {
	router := createTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

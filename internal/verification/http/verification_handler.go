// Package http provides HTTP handlers for verification exchange operations.
package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/pensionseva/eisgateway/internal/httputil"
	"github.com/pensionseva/eisgateway/internal/validation"
	"github.com/pensionseva/eisgateway/internal/verification/http/dto"
	verificationUseCase "github.com/pensionseva/eisgateway/internal/verification/usecase"
)

// maxCallbackBodyBytes bounds how much of a callback body is read.
const maxCallbackBodyBytes = 4 << 20

// VerificationHandler handles HTTP requests for verification exchanges.
type VerificationHandler struct {
	useCase verificationUseCase.VerificationUseCase
	logger  *slog.Logger
}

// NewVerificationHandler creates a new verification handler.
func NewVerificationHandler(
	useCase verificationUseCase.VerificationUseCase,
	logger *slog.Logger,
) *VerificationHandler {
	return &VerificationHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// Verify handles POST /v1/verifications requests.
func (h *VerificationHandler) Verify(c *gin.Context) {
	var request dto.VerifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, validation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.useCase.Verify(c.Request.Context(), &verificationUseCase.VerifyInput{
		RequestID:      requestid.Get(c),
		Payload:        request.Payload,
		TxnType:        request.TxnType,
		TxnSubType:     request.TxnSubType,
		AcceptDegraded: request.AcceptDegraded,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewVerificationResponse(output))
}

// Callback handles POST /v1/verifications/callback/:reference requests from
// the counterparty. The body is the counterparty's response envelope, opened
// with the session key retained from the originating exchange.
func (h *VerificationHandler) Callback(c *gin.Context) {
	reference := c.Param("reference")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBodyBytes))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.useCase.HandleCallback(c.Request.Context(), reference, body)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewVerificationResponse(output))
}

// ListExchanges handles GET /v1/exchanges requests with pagination.
func (h *VerificationHandler) ListExchanges(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	exchanges, err := h.useCase.ListExchanges(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewExchangeListResponse(exchanges, offset, limit))
}

// GetExchange handles GET /v1/exchanges/:reference requests.
func (h *VerificationHandler) GetExchange(c *gin.Context) {
	exchange, err := h.useCase.GetExchange(c.Request.Context(), c.Param("reference"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewExchangeResponse(exchange))
}

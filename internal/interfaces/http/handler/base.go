package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appmember "github.com/coopfin/backend/internal/application/member"
	apptransaction "github.com/coopfin/backend/internal/application/transaction"
	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/payment"
	"github.com/coopfin/backend/internal/domain/shared"
	"github.com/coopfin/backend/internal/domain/transaction"
	"github.com/coopfin/backend/internal/interfaces/http/dto"
	"github.com/coopfin/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// errorCodeFor maps domain and application errors to API error codes
func errorCodeFor(err error) (code string, known bool) {
	switch {
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, payment.ErrSessionNotFound),
		errors.Is(err, apptransaction.ErrMemberNotFound):
		return dto.ErrCodeNotFound, true
	case errors.Is(err, appmember.ErrMemberNumberTaken):
		return dto.ErrCodeAlreadyExists, true
	case errors.Is(err, apptransaction.ErrMemberNotActive),
		errors.Is(err, member.ErrNotActive):
		return dto.ErrCodeMemberNotActive, true
	case errors.Is(err, apptransaction.ErrMissingPhone):
		return dto.ErrCodeMissingPhone, true
	case errors.Is(err, member.ErrInsufficientFunds):
		return dto.ErrCodeInsufficientFunds, true
	case errors.Is(err, transaction.ErrInvalidPrecision):
		return dto.ErrCodeAmountPrecision, true
	case errors.Is(err, transaction.ErrInvalidMemberID),
		errors.Is(err, transaction.ErrInvalidKind),
		errors.Is(err, transaction.ErrInvalidAccountKind),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidMethod),
		errors.Is(err, member.ErrInvalidMemberNumber),
		errors.Is(err, member.ErrInvalidName):
		return dto.ErrCodeValidation, true
	case errors.Is(err, payment.ErrSessionActive):
		return dto.ErrCodeSessionActive, true
	case errors.Is(err, payment.ErrSessionTerminal):
		return dto.ErrCodeSessionTerminal, true
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return dto.ErrCodeGatewayUnavailable, true
	case errors.Is(err, payment.ErrGatewayInvalidResponse):
		return dto.ErrCodeGatewayBadResponse, true
	}
	return dto.ErrCodeInternal, false
}

// HandleError converts domain and application errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}

	code, known := errorCodeFor(err)
	if known {
		h.ErrorWithCode(c, code, err.Error())
		return
	}
	h.InternalError(c, "An unexpected error occurred")
}

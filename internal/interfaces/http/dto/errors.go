package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeMemberNotActive     = "ERR_MEMBER_NOT_ACTIVE"
	ErrCodeInsufficientFunds   = "ERR_INSUFFICIENT_FUNDS"
	ErrCodeSessionActive       = "ERR_SESSION_ACTIVE"
	ErrCodeSessionTerminal     = "ERR_SESSION_TERMINAL"
	ErrCodeGatewayUnavailable  = "ERR_GATEWAY_UNAVAILABLE"
	ErrCodeGatewayBadResponse  = "ERR_GATEWAY_BAD_RESPONSE"
	ErrCodeMissingPhone        = "ERR_MISSING_PHONE"
	ErrCodeAmountPrecision     = "ERR_AMOUNT_PRECISION"
	ErrCodeConfirmationPending = "ERR_CONFIRMATION_PENDING"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeMemberNotActive:     http.StatusUnprocessableEntity,
	ErrCodeInsufficientFunds:   http.StatusUnprocessableEntity,
	ErrCodeSessionActive:       http.StatusConflict,
	ErrCodeSessionTerminal:     http.StatusConflict,
	ErrCodeGatewayUnavailable:  http.StatusBadGateway,
	ErrCodeGatewayBadResponse:  http.StatusBadGateway,
	ErrCodeMissingPhone:        http.StatusBadRequest,
	ErrCodeAmountPrecision:     http.StatusBadRequest,
	ErrCodeConfirmationPending: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeValidation,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"INSUFFICIENT_BALANCE": ErrCodeInsufficientFunds,
	"MEMBER_NOT_ACTIVE":    ErrCodeMemberNotActive,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}

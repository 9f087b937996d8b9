package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest        ErrorCode = "bad_request"
	errCodeNotFound          ErrorCode = "not_found"
	errCodeValidationFailed  ErrorCode = "validation_failed"
	errCodeUnauthorized      ErrorCode = "unauthorized"
	errCodeForbidden         ErrorCode = "forbidden"
	errCodeInsufficientFunds ErrorCode = "insufficient_funds"
	errCodeConflict          ErrorCode = "conflict"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
	errCodeServiceError  ErrorCode = "service_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps sentinel errors to stable HTTP codes with sanitized
// messages. Raw internal errors never reach the response body.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(c, http.StatusForbidden, errCodeForbidden, "Caller is not authorized for this operation")
	case errors.Is(err, domain.ErrInvalidAddress):
		respondValidationError(c, "Invalid address")
	case errors.Is(err, domain.ErrInvalidAmount):
		respondValidationError(c, "Invalid amount")
	case errors.Is(err, domain.ErrCustomerNotRegistered):
		respondNotFound(c, "Customer is not registered")
	case errors.Is(err, domain.ErrRewardNotFound):
		respondNotFound(c, "Reward not found")
	case errors.Is(err, domain.ErrCertificateNotFound),
		errors.Is(err, domain.ErrPendingCertificateNotFound),
		errors.Is(err, domain.ErrCIDNotFound):
		respondNotFound(c, "Certificate not found")
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondWithError(c, http.StatusConflict, errCodeInsufficientFunds, "Insufficient token balance")
	case errors.Is(err, domain.ErrInsufficientAllowance):
		respondWithError(c, http.StatusConflict, errCodeInsufficientFunds, "Insufficient token allowance")
	case errors.Is(err, domain.ErrRedemptionConflict):
		respondWithError(c, http.StatusConflict, errCodeConflict, "Redemption conflicted with a concurrent redemption")
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrPublicationFailed),
		errors.Is(err, domain.ErrLedgerSubmissionFailed):
		logger.Error(err)
		respondWithError(c, http.StatusServiceUnavailable, errCodeServiceError, "Service temporarily unavailable")
	default:
		respondInternalError(c, err, "Internal server error")
	}
}

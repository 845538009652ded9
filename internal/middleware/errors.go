package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"user_directory/internal/logger"
	"user_directory/internal/service"

	"github.com/gin-gonic/gin"
)

// Error codes sent in the "code" field of every error body
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStoreFailure       = "STORE_FAILURE"
	CodeInternal           = "INTERNAL_ERROR"
)

const internalMessage = "internal server error"

type errorMapping struct {
	target error
	status int
	code   string
	// detail sends the wrapped message instead of the bare sentinel text. Only set for
	// errors whose wrapping text is written by this service.
	detail bool
}

var errorTable = []errorMapping{
	{service.ErrValidation, http.StatusBadRequest, CodeValidation, true},
	{service.ErrConflict, http.StatusConflict, CodeConflict, false},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, false},
	{service.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired, false},
	{service.ErrTokenInvalid, http.StatusUnauthorized, CodeTokenInvalid, false},
	{service.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthenticated, true},
	{service.ErrAccountBlocked, http.StatusForbidden, CodeAccountBlocked, false},
	{service.ErrForbidden, http.StatusForbidden, CodeForbidden, false},
	{service.ErrNotFound, http.StatusNotFound, CodeNotFound, false},
}

// ErrorBody is the JSON shape of every error response
func ErrorBody(code, message string) gin.H {
	return gin.H{"error": message, "code": code}
}

// Classify maps a service error to its HTTP status, error code and client message.
// Anything outside the table is reported as a store or internal failure with a generic
// message.
func Classify(err error) (status int, code, message string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			if m.detail {
				return m.status, m.code, err.Error()
			}
			return m.status, m.code, m.target.Error()
		}
	}
	if errors.Is(err, service.ErrStoreFailure) {
		return http.StatusInternalServerError, CodeStoreFailure, internalMessage
	}
	return http.StatusInternalServerError, CodeInternal, internalMessage
}

// RespondError aborts the request with the mapped error body. Server side failures are
// logged with their full chain; the client only sees the generic message.
func RespondError(c *gin.Context, log *slog.Logger, err error) {
	status, code, message := Classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("request_id", c.GetString(RequestIDKey)),
			slog.String("path", c.FullPath()),
			logger.Err(err),
		)
	}
	c.AbortWithStatusJSON(status, ErrorBody(code, message))
}

package dto

import (
	"net/http"
	"strings"
)

// API error codes that do not come from a domain error.
// Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing here fall back to the prefix rules in HTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	// Auth
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"FORBIDDEN":           http.StatusForbidden,
	"STORE_MISMATCH":      http.StatusForbidden,

	// Resources
	"NOT_FOUND":         http.StatusNotFound,
	"ALREADY_EXISTS":    http.StatusConflict,
	"DUPLICATE_INVOICE": http.StatusConflict,
	"ALREADY_INVOICED":  http.StatusConflict,

	// Concurrency
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,
	"STOCK_LOCK_TIMEOUT":   http.StatusServiceUnavailable,

	// Validation and state
	"INVALID_INPUT": http.StatusBadRequest,
	"INVALID_STATE": http.StatusBadRequest,
	"PAST_WEEK":     http.StatusBadRequest,
	"NO_ITEMS":      http.StatusBadRequest,
	"EMPTY_COUNT":   http.StatusBadRequest,

	// Business rules
	"INSUFFICIENT_STOCK":  http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDED":   http.StatusUnprocessableEntity,
	"EXCEEDS_OUTSTANDING": http.StatusUnprocessableEntity,
	"ALLOCATION_MISMATCH": http.StatusUnprocessableEntity,
	"OVER_ALLOCATED":      http.StatusUnprocessableEntity,
	"NOT_PAYABLE":         http.StatusUnprocessableEntity,
	"NO_ORDERS":           http.StatusUnprocessableEntity,

	// Disabled features
	"PRINTING_DISABLED": http.StatusServiceUnavailable,
	"STORAGE_DISABLED":  http.StatusServiceUnavailable,
}

// HTTPStatus returns the status for a domain error code. Unlisted codes
// use their shape: *_NOT_FOUND is 404, INVALID_* is 400, the rest are
// business rule failures.
func HTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// APICode turns a domain error code into its wire form, e.g.
// INSUFFICIENT_STOCK becomes ERR_INSUFFICIENT_STOCK
func APICode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}

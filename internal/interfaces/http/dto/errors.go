package dto

import "net/http"

// Domain error codes, as carried by shared.DomainError
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeRendererUnavailable = "DOCUMENT_RENDERER_UNAVAILABLE"
)

// Transport error codes
const (
	ErrCodeInternal              = "INTERNAL_ERROR"
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodePayloadTooLarge       = "PAYLOAD_TOO_LARGE"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeIdempotencyInProgress = "IDEMPOTENCY_KEY_IN_PROGRESS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Uniqueness and reference conflicts are client errors reported as 400.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusBadRequest,
	ErrCodeConflict:            http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeRendererUnavailable: http.StatusServiceUnavailable,

	ErrCodeInternal:              http.StatusInternalServerError,
	ErrCodeBadRequest:            http.StatusBadRequest,
	ErrCodeInvalidJSON:           http.StatusBadRequest,
	ErrCodePayloadTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:           http.StatusTooManyRequests,
	ErrCodeIdempotencyInProgress: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

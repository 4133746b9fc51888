package apperror

import "net/http"

const jsonParseErrorPrefix = "JSON parse error - "

var (
	ErrInternal = New(
		CodeInternalError,
		"A server error occurred.",
		http.StatusInternalServerError,
	)

	ErrServiceUnavailable = New(
		CodeServiceUnavailable,
		"database unavailable",
		http.StatusServiceUnavailable,
	)

	ErrTooManyRequests = New(
		CodeTooManyRequests,
		"Request was throttled.",
		http.StatusTooManyRequests,
	)

	ErrRequestInProgress = New(
		CodeConflict,
		"A request with this idempotency key is already being processed.",
		http.StatusConflict,
	)
)

// ParseError reports a request body that could not be decoded.
func ParseError(err error) *AppError {
	return Wrap(err, CodeInvalidInput, jsonParseErrorPrefix+err.Error(), http.StatusBadRequest)
}

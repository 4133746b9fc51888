package apperror

import "fmt"

// AppError is an error with a stable code and the HTTP status it maps to.
// Message is safe to show to clients; Err is for logs only.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports a match on code and message, so a wrapped copy of a sentinel
// still satisfies errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap attaches err to a new AppError; a nil err yields nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// WrapAs copies sentinel and attaches err as its cause.
func WrapAs(sentinel *AppError, err error) *AppError {
	return Wrap(err, sentinel.Code, sentinel.Message, sentinel.HTTPStatus)
}

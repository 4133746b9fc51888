package employeeerrors

import (
	"net/http"

	"go-employees/internal/shared/apperror"
)

const (
	MsgNameEmpty  = "Name cannot be empty."
	MsgEmailTaken = "An employee with this email already exists."
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found.",
		http.StatusNotFound,
	)
)

// ErrEmailTaken returns a fresh field error for a duplicate email.
func ErrEmailTaken() *apperror.ValidationError {
	return apperror.FieldError("email", MsgEmailTaken)
}

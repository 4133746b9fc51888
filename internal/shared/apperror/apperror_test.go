package apperror_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"go-employees/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Wrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperror.Wrap(cause, apperror.CodeInternalError, "A server error occurred.", http.StatusInternalServerError)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "A server error occurred.: connection refused", err.Error())
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))
}

func TestAppError_IsSentinel(t *testing.T) {
	cause := errors.New("row vanished")
	err := apperror.WrapAs(apperror.ErrServiceUnavailable, cause)

	assert.ErrorIs(t, err, apperror.ErrServiceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperror.ErrInternal)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := apperror.ParseError(cause)

	assert.Equal(t, apperror.CodeInvalidInput, err.Code)
	assert.Equal(t, "JSON parse error - unexpected EOF", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestValidationError(t *testing.T) {
	v := apperror.NewValidationError()
	assert.True(t, v.Empty())

	v.Add("name", "Name cannot be empty.")
	v.Merge(apperror.FieldError("email", apperror.MsgInvalidEmail))

	assert.True(t, v.Has("email"))
	assert.False(t, v.Has("role"))
	assert.Equal(t, http.StatusBadRequest, v.HTTPStatus())
	assert.Equal(t, "validation failed: email: Enter a valid email address.; name: Name cannot be empty.", v.Error())

	body, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":["Name cannot be empty."],"email":["Enter a valid email address."]}`, string(body))
}

type sample struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"email"`
	Team     string `json:"team" validate:"max=3"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	apperror.RegisterJSONTagNames(v)

	err := v.Struct(sample{Email: "nope", Team: "platform"})
	out := apperror.MapValidationError(err)

	assert.Equal(t, []string{"Full Name cannot be empty."}, out.Fields["full_name"])
	assert.Equal(t, []string{apperror.MsgInvalidEmail}, out.Fields["email"])
	assert.Equal(t, []string{"Ensure this field has no more than 3 characters."}, out.Fields["team"])

	assert.Nil(t, apperror.MapValidationError(nil))
	assert.True(t, apperror.MapValidationError(errors.New("odd")).Has("non_field_errors"))
}

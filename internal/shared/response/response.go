package response

import (
	"errors"
	"net/http"

	"go-employees/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// PageEnvelope is the list response shape:
// {"count": 15, "total_pages": 2, "current_page": 1, "results": [...]}
type PageEnvelope struct {
	Count       int64 `json:"count"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	Results     any   `json:"results"`
}

type DetailBody struct {
	Detail string `json:"detail"`
}

func NewPageEnvelope(count int64, totalPages, currentPage int, results any) PageEnvelope {
	return PageEnvelope{
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		Results:     results,
	}
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Page(c *gin.Context, page PageEnvelope) {
	c.JSON(http.StatusOK, page)
}

func Detail(c *gin.Context, status int, message string) {
	c.JSON(status, DetailBody{Detail: message})
}

// Error writes err using its own status when it is a known application
// error and falls back to a generic 500 otherwise.
func Error(c *gin.Context, err error) {
	var vErr *apperror.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(vErr.HTTPStatus(), vErr)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		Detail(c, appErr.HTTPStatus, appErr.Message)
		return
	}

	Detail(c, apperror.ErrInternal.HTTPStatus, apperror.ErrInternal.Message)
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

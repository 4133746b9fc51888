package employee

import (
	"errors"
	"net/http"
	"strconv"

	employeeerrors "go-employees/internal/employee/errors"
	"go-employees/internal/shared/apperror"
	"go-employees/internal/shared/contextutil"
	"go-employees/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	log := contextutil.GetLogger(c.Request.Context(), h.logger)

	var vErr *apperror.ValidationError
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &vErr):
		log.Info("employee request rejected",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	case errors.As(err, &appErr):
		log.Warn("employee request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", appErr.HTTPStatus),
			zap.String("code", appErr.Code),
		)
	default:
		log.Error("employee request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, err)
}

// bindRequest decodes the JSON body. On failure it writes the 400 itself.
func (h *Handler) bindRequest(c *gin.Context) (EmployeeRequest, bool) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		contextutil.GetLogger(c.Request.Context(), h.logger).
			Info("http employee body parse failed", zap.Error(err))
		response.Error(c, apperror.ParseError(err))
		return EmployeeRequest{}, false
	}
	return req, true
}

// parseID rejects anything that is not a positive integer as not found,
// the same answer an unknown numeric id gets.
func (h *Handler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, employeeerrors.ErrEmployeeNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) List(c *gin.Context) {
	var department, role *string
	if v, ok := c.GetQuery("department"); ok {
		department = &v
	}
	if v, ok := c.GetQuery("role"); ok {
		role = &v
	}
	q := ParseListQuery(department, role, c.Query("page"))

	resp, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Page(c, response.NewPageEnvelope(resp.Count, resp.TotalPages, resp.CurrentPage, resp.Results))
}

func (h *Handler) Create(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	// an unknown id is reported before anything about the body
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package employee

import (
	"net/http"
	"strings"

	"go-staffdir/internal/shared/apperror"
	"go-staffdir/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	mutator *Mutator
	logger  *zap.Logger
}

func NewHandler(service Service, mutator *Mutator, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, mutator: mutator, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindingError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

// GetAll serves the list view. The query string is the persisted view state;
// decode it, run the pipeline, and echo the normalized state back so the
// client can re-persist it.
func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	spec := DecodeViewState(c.Request.URL.Query())
	h.logger.Debug("http list employees",
		zap.String("query", c.Request.URL.RawQuery),
		zap.Int("page", spec.Page),
	)

	res, err := h.service.List(ctx, spec)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.PaginationMeta{
		Total:      int64(res.Total),
		TotalPages: res.TotalPages,
		Page:       res.Page,
		PageSize:   PageSize,
	}
	response.Success(c, http.StatusOK, gin.H{
		"items":      res.Items,
		"view_state": res.ViewState,
	}, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	h.logger.Debug("http get employee by id", zap.String("employee_id", id))

	resp, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee validation failed", zap.Error(err))
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	h.logger.Debug("http delete employee", zap.String("employee_id", id))

	if err := h.mutator.SoftDelete(ctx, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	res, err := h.mutator.BulkSoftDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"requested":  res.Requested,
		"failed":     len(res.FailedIDs),
		"failed_ids": res.FailedIDs,
	}, nil)
}

func (h *Handler) BulkStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	res, err := h.mutator.BulkSetStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"requested":  res.Requested,
		"failed":     len(res.FailedIDs),
		"failed_ids": res.FailedIDs,
	}, nil)
}

func (h *Handler) Positions(c *gin.Context) {
	resp, err := h.service.Positions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// CheckEmail is the advisory uniqueness pre-check behind the email field;
// create still rejects duplicates authoritatively.
func (h *Handler) CheckEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "email query parameter is required", nil)
		return
	}

	exists, err := h.service.CheckEmail(c.Request.Context(), email)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"email":  email,
		"unique": !exists,
	}, nil)
}

func (h *Handler) NextCode(c *gin.Context) {
	code, err := h.service.NextEmployeeCode(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"employee_code": code}, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"refreshed": true}, nil)
}

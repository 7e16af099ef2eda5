package disciplinary

import (
	"errors"
	"net/http"
	"strconv"

	"go-zampay/internal/shared/apperror"
	"go-zampay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("disciplinary.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("disciplinary.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperror.CodeInternalError
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus
		code = appErr.Code
	}
	h.logger.Warn("disciplinary request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.String("code", code),
		zap.Error(err),
	)
	response.FromError(c, err)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http create disciplinary record", zap.String("company_id", companyID))
	var req CreateDisciplinaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create disciplinary validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	recordID := c.Param("id")
	h.logger.Debug("http deactivate disciplinary record",
		zap.String("company_id", companyID),
		zap.String("record_id", recordID),
	)
	var req DeactivateDisciplinaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Deactivate(ctx, companyID, recordID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	employeeID := c.Param("employee_id")

	activeOnly := c.DefaultQuery("active_only", "false") == "true"
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	resp, total, err := h.service.GetByEmployee(ctx, companyID, employeeID, activeOnly, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

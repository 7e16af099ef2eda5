package hraction

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

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
	l := zap.L().Named("hraction.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hraction.handler")
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
	h.logger.Warn("hr action request failed",
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
	h.logger.Debug("http create hr action", zap.String("company_id", companyID))
	var req CreateHRActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create hr action validation failed", zap.Error(err))
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

func (h *Handler) UpdateProfile(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http update profile", zap.String("company_id", companyID))
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update profile validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http change status", zap.String("company_id", companyID))
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http change status validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ChangeStatus(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateContract(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http update contract", zap.String("company_id", companyID))
	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update contract validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateContract(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ChangeSalary(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http change salary", zap.String("company_id", companyID))
	var req ChangeSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http change salary validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ChangeSalary(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) RecordLeave(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http record leave", zap.String("company_id", companyID))
	var req RecordLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http record leave validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RecordLeave(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CommuteLeave(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http commute leave", zap.String("company_id", companyID))
	var req CommuteLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http commute leave validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CommuteLeave(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) RecordUnauthorizedAbsence(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http record unauthorized absence", zap.String("company_id", companyID))
	var req UnauthorizedAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http record unauthorized absence validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RecordUnauthorizedAbsence(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ProcessExit(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http process exit", zap.String("company_id", companyID))
	var req ProcessExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http process exit validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ProcessExit(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actionID := c.Param("id")
	h.logger.Debug("http approve hr action",
		zap.String("company_id", companyID),
		zap.String("action_id", actionID),
	)

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Approve(ctx, companyID, actionID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actionID := c.Param("id")
	h.logger.Debug("http reject hr action",
		zap.String("company_id", companyID),
		zap.String("action_id", actionID),
	)

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(ctx, companyID, actionID, req)
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

	filter, page, pageSize := filterFromQuery(c)
	resp, total, err := h.service.GetByEmployee(ctx, companyID, employeeID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	filter, page, pageSize := filterFromQuery(c)
	resp, total, err := h.service.GetAll(ctx, companyID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetPendingApprovals(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	filter, page, pageSize := filterFromQuery(c)
	resp, total, err := h.service.GetPendingApprovals(ctx, companyID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func filterFromQuery(c *gin.Context) (ListFilter, int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	filter := ListFilter{
		ActionType: strings.TrimSpace(c.Query("action_type")),
		Status:     strings.TrimSpace(c.Query("status")),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = &d
		}
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			filter.EndDate = &d
		}
	}
	return filter, page, pageSize
}

package company

import (
	"errors"
	"net/http"

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
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
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
	h.logger.Warn("company request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.String("code", code),
		zap.Error(err),
	)
	response.FromError(c, err)
}

func (h *Handler) GetProfile(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update company validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpsertRegistration(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req UpsertCompanyRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http upsert registration validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.UpsertRegistration(c.Request.Context(), companyID, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": true}, nil)
}

func (h *Handler) ListRegistrations(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.ListRegistrations(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteRegistration(c *gin.Context) {
	companyID := c.GetString("company_id")
	regType := RegistrationType(c.Param("type"))

	if err := h.service.DeleteRegistration(c.Request.Context(), companyID, regType); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

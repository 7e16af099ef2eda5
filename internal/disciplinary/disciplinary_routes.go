package disciplinary

import (
	"go-zampay/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	records := r.Group("/disciplinary")
	records.Use(middleware.AuthMiddleware())
	records.Use(middleware.ContextLogger(logger))
	{
		records.GET("/employee/:employee_id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByEmployee,
		)

		records.POST("",
			middleware.RateLimitByUser(0.2, 1),
			handler.Create,
		)

		records.POST("/:id/deactivate",
			middleware.RateLimitByUser(0.2, 1),
			handler.Deactivate,
		)
	}
}

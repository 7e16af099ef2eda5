package leave

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
	leaves := r.Group("/leave")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("/records",
			middleware.RateLimitByUser(3, 10),
			handler.GetAll,
		)

		leaves.GET("/records/employee/:employee_id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByEmployee,
		)
	}
}

package payroll

import (
	"go-zampay/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	payroll.Use(middleware.ContextLogger(logger))
	{
		payroll.GET("/period/:period",
			middleware.RateLimitByUser(3, 10),
			handler.GetByPeriod,
		)

		payroll.GET("/period/:period/statistics",
			middleware.RateLimitByUser(3, 10),
			handler.GetStatistics,
		)

		payroll.GET("/employee/:employee_id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByEmployee,
		)

		payroll.POST("/process",
			middleware.RateLimitByUser(0.05, 1),
			middleware.Idempotency(rdb, logger),
			handler.Process,
		)

		payroll.POST("/:id/mark-paid",
			middleware.RateLimitByUser(0.2, 1),
			middleware.Idempotency(rdb, logger),
			handler.MarkPaid,
		)
	}
}

package hraction

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
	actions := r.Group("/hr-actions")
	actions.Use(middleware.AuthMiddleware())
	actions.Use(middleware.ContextLogger(logger))
	{
		actions.GET("",
			middleware.RateLimitByUser(3, 10),
			handler.GetAll,
		)

		actions.GET("/pending-approvals",
			middleware.RateLimitByUser(3, 10),
			handler.GetPendingApprovals,
		)

		actions.GET("/employee/:employee_id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByEmployee,
		)

		actions.POST("",
			middleware.RateLimitByUser(0.5, 2),
			handler.Create,
		)

		actions.POST("/profile-update",
			middleware.RateLimitByUser(0.5, 2),
			handler.UpdateProfile,
		)

		actions.POST("/status-change",
			middleware.RateLimitByUser(0.5, 2),
			handler.ChangeStatus,
		)

		actions.POST("/contract-update",
			middleware.RateLimitByUser(0.5, 2),
			handler.UpdateContract,
		)

		actions.POST("/salary-change",
			middleware.RateLimitByUser(0.2, 1),
			handler.ChangeSalary,
		)

		actions.POST("/leave-record",
			middleware.RateLimitByUser(0.5, 2),
			handler.RecordLeave,
		)

		actions.POST("/leave-commute",
			middleware.RateLimitByUser(0.2, 1),
			handler.CommuteLeave,
		)

		actions.POST("/unauthorized-absence",
			middleware.RateLimitByUser(0.5, 2),
			handler.RecordUnauthorizedAbsence,
		)

		actions.POST("/exit",
			middleware.RateLimitByUser(0.1, 1),
			handler.ProcessExit,
		)

		actions.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			handler.Approve,
		)

		actions.POST("/:id/reject",
			middleware.RateLimitByUser(0.5, 2),
			handler.Reject,
		)
	}
}

package company

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
	companies := r.Group("/company")
	companies.Use(middleware.AuthMiddleware())
	companies.Use(middleware.ContextLogger(logger))
	{
		companies.GET("/profile",
			middleware.RateLimitByUser(3, 10),
			handler.GetProfile,
		)

		companies.PUT("/profile",
			middleware.RateLimitByUser(0.5, 2),
			handler.UpdateProfile,
		)

		companies.GET("/registrations",
			middleware.RateLimitByUser(3, 10),
			handler.ListRegistrations,
		)

		companies.PUT("/registrations",
			middleware.RateLimitByUser(0.5, 2),
			handler.UpsertRegistration,
		)

		companies.DELETE("/registrations/:type",
			middleware.RateLimitByUser(0.1, 1),
			handler.DeleteRegistration,
		)
	}
}

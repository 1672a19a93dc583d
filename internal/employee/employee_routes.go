package employee

import (
	"go-staffdir/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByIP(10, 30),
			handler.GetAll,
		)

		employees.GET("/positions",
			middleware.RateLimitByIP(10, 30),
			handler.Positions,
		)

		employees.GET("/summary",
			middleware.RateLimitByIP(10, 30),
			handler.Summary,
		)

		employees.GET("/check-email",
			middleware.RateLimitByIP(5, 10),
			handler.CheckEmail,
		)

		employees.GET("/next-code",
			middleware.RateLimitByIP(5, 10),
			handler.NextCode,
		)

		employees.GET("/:id",
			middleware.RateLimitByIP(10, 30),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByIP(1, 3),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByIP(1, 3),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByIP(1, 2),
			handler.Delete,
		)

		employees.POST("/bulk-delete",
			middleware.RateLimitByIP(0.5, 1),
			handler.BulkDelete,
		)

		employees.POST("/bulk-status",
			middleware.RateLimitByIP(0.5, 1),
			handler.BulkStatus,
		)

		employees.POST("/refresh",
			middleware.RateLimitByIP(1, 2),
			handler.Refresh,
		)
	}
}

package middleware

import (
	"go-staffdir/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger decorates the request context with a logger carrying the
// request id, so deeper layers log with the same correlation field.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := logger
		if rid := c.GetString("request_id"); rid != "" {
			l = logger.With(zap.String("request_id", rid))
		}

		ctx := contextutil.WithLogger(c.Request.Context(), l)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

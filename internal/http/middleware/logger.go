package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleetfin/internal/utils"
)

// Logger writes one structured line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if a, ok := ActorFrom(c); ok {
			fields = append(fields, zap.String("user", a.Username))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			utils.Log().Error("http request", fields...)
		case status >= http.StatusBadRequest:
			utils.Log().Warn("http request", fields...)
		default:
			utils.Log().Info("http request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		rid := GetRequestID(c)
		utils.Log().Error("panic recovered",
			zap.String("request_id", rid),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "internal error",
			"code":       "internal_error",
			"message":    "internal error",
			"request_id": rid,
		})
	})
}

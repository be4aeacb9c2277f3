package middleware

import (
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware records every error attached to the context with
// c.Error into analytics. Server side failures are logged at error level.
func ErrorMonitorMiddleware(analytics *errors.ErrorAnalytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		for _, e := range c.Errors {
			traced := errors.NewTracedError(e.Err, errors.ErrorContext{
				RequestID: c.GetString(ContextRequestID),
				UserID:    c.GetString(ContextUserID),
				Path:      path,
				Method:    c.Request.Method,
			})
			analytics.Record(traced)

			fields := []zap.Field{
				zap.Int("error_code", int(traced.Code)),
				zap.String("error_message", traced.Message),
				zap.String("path", path),
				zap.String("method", c.Request.Method),
				zap.String("request_id", traced.Context.RequestID),
			}
			if errors.StatusOf(traced.Code) >= 500 {
				util.Logger.Error("request failed", append(fields, zap.Error(traced.Err))...)
			} else {
				util.Logger.Debug("request rejected", fields...)
			}
		}
	}
}

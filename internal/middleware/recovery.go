package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/util"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into a 500 response. The panic is logged
// with its stack and reported to Sentry when a client is configured.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				util.Logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", string(debug.Stack())))

				if hub := sentry.CurrentHub().Clone(); hub.Client() != nil {
					hub.Scope().SetRequest(c.Request)
					hub.Scope().SetTag("request_id", c.GetString(ContextRequestID))
					hub.Recover(r)
					hub.Flush(2 * time.Second)
				}

				errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Internal server error", fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}

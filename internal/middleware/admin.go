package middleware

import (
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminMiddleware lets only admin tokens through. It must run after
// AuthMiddleware. The role is read from the token, not the database.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication required"))
			c.Abort()
			return
		}

		if c.GetString(ContextRole) != model.RoleAdmin {
			util.Logger.Warn("non-admin access to admin route",
				zap.Any("user_id", userID),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "Admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}

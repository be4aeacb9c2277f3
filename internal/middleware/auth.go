package middleware

import (
	"context"
	"strings"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keys under which the token claims are stored on the gin context
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextEmail    = "email"
	ContextRole     = "role"
)

const requestTimeout = 5 * time.Second

// AuthMiddleware requires a valid bearer token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withRequestTimeout(c)
		defer cancel()

		token, err := bearerToken(c)
		if err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		claims, verr := util.ValidateToken(token)
		if verr != nil {
			rejectToken(c, verr)
			return
		}
		setClaims(c, claims)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "Request timed out"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// OptionalAuthMiddleware attaches the claims when a valid token is present and
// lets anonymous requests through. An invalid token is still rejected.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, cancel := withRequestTimeout(c)
		defer cancel()

		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		token, err := bearerToken(c)
		if err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}
		claims, verr := util.ValidateToken(token)
		if verr != nil {
			rejectToken(c, verr)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// withRequestTimeout bounds the request context by requestTimeout
func withRequestTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	c.Request = c.Request.WithContext(ctx)
	return ctx, cancel
}

func rejectToken(c *gin.Context, err error) {
	util.Logger.Debug("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	if err == util.ErrTokenExpired {
		errors.HandleError(c, errors.Wrap(errors.ErrTokenExpired, "Token has expired", err))
	} else {
		errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "Invalid or expired token", err))
	}
	c.Abort()
}

// CurrentActor returns the caller described by the token claims, or the
// zero Actor for anonymous requests.
func CurrentActor(c *gin.Context) model.Actor {
	return model.Actor{
		UserID:   c.GetString(ContextUserID),
		Username: c.GetString(ContextUsername),
		Email:    c.GetString(ContextEmail),
		Role:     c.GetString(ContextRole),
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New(errors.ErrUnauthorized, "Authentication required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New(errors.ErrUnauthorized, "Invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func setClaims(c *gin.Context, claims *util.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
}

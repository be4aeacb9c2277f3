package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"robotapp-backend/config"
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = config.Config{JWTSecret: "middleware-secret", JWTExpiryHours: 1}
	os.Exit(m.Run())
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := util.GenerateToken(&model.User{ID: "u-" + role, Username: role, Email: role + "@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	whoami := func(c *gin.Context) {
		actor := CurrentActor(c)
		c.String(http.StatusOK, actor.UserID+"|"+actor.Role)
	}
	r.GET("/me", AuthMiddleware(), whoami)
	r.GET("/admin", AuthMiddleware(), AdminMiddleware(), whoami)
	r.GET("/maybe", OptionalAuthMiddleware(), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter()

	w := do(r, "/me", tokenFor(t, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-user|user", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	r := protectedRouter()

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", tokenFor(t, model.RoleUser)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)

	w := do(r, "/admin", tokenFor(t, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-admin|admin", w.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := protectedRouter()

	w := do(r, "/maybe", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "|", w.Body.String())

	w = do(r, "/maybe", tokenFor(t, model.RoleUser))
	assert.Equal(t, "u-user|user", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/maybe", "garbage").Code)
}

func TestRequestDeadline(t *testing.T) {
	r := gin.New()
	deadline := func(c *gin.Context) {
		d, ok := c.Request.Context().Deadline()
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.String(http.StatusOK, "%v", time.Until(d) <= requestTimeout)
	}
	r.GET("/guest", OptionalAuthMiddleware(), deadline)
	r.GET("/member", AuthMiddleware(), deadline)

	w := do(r, "/guest", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	w = do(r, "/guest", tokenFor(t, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	w = do(r, "/member", tokenFor(t, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("motor controller on fire") })

	w := do(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "motor controller")
}

func TestErrorMonitorMiddleware(t *testing.T) {
	analytics := errors.NewErrorAnalytics()
	r := gin.New()
	r.Use(RequestID(), ErrorMonitorMiddleware(analytics))
	r.GET("/orders/:id", func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrOrderNotFound, "Order not found"))
	})

	do(r, "/orders/1", "")
	do(r, "/orders/2", "")

	assert.Equal(t, 2, analytics.CountFor(errors.ErrOrderNotFound))
	stats := analytics.GetStats()
	assert.Equal(t, 2, stats["totalErrors"])
	assert.Equal(t, map[string]int{"/orders/:id": 2}, stats["errorsByPath"])
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/", "").Code)

	assert.True(t, limiter.Allow("10.0.0.9"))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(5, 5)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	now = now.Add(11 * time.Minute)
	limiter.Allow("b")
	limiter.Cleanup()

	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiterConcurrentClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 5)
	limiter.now = func() time.Time { return now }

	var allowed int64
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if limiter.Allow("10.0.0.1") {
					atomic.AddInt64(&allowed, 1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), allowed)
	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	for i := 0; i < 50; i++ {
		assert.True(t, limiter.Allow("x"))
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := do(r, "/", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"robotapp-backend/config"
	"robotapp-backend/internal/api/admin"
	"robotapp-backend/internal/api/feedback"
	"robotapp-backend/internal/api/health"
	"robotapp-backend/internal/api/order"
	"robotapp-backend/internal/api/product"
	"robotapp-backend/internal/api/question"
	"robotapp-backend/internal/api/support"
	"robotapp-backend/internal/api/user"
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/repository/mocks"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = config.Config{JWTSecret: "router-secret", JWTExpiryHours: 1}
	os.Exit(m.Run())
}

type repos struct {
	users     *mocks.UserRepository
	orders    *mocks.OrderRepository
	products  *mocks.ProductRepository
	tickets   *mocks.TicketRepository
	feedback  *mocks.FeedbackRepository
	questions *mocks.QuestionRepository
}

func newTestEngine(opts Options) (*gin.Engine, *repos) {
	rp := &repos{
		users:     new(mocks.UserRepository),
		orders:    new(mocks.OrderRepository),
		products:  new(mocks.ProductRepository),
		tickets:   new(mocks.TicketRepository),
		feedback:  new(mocks.FeedbackRepository),
		questions: new(mocks.QuestionRepository),
	}
	analytics := opts.Analytics
	if analytics == nil {
		analytics = errors.NewErrorAnalytics()
	}
	handlers := Handlers{
		Auth:     user.NewAuthHandler(service.NewUserService(rp.users, nil)),
		Order:    order.NewOrderHandler(service.NewOrderService(rp.orders, nil)),
		Product:  product.NewProductHandler(service.NewProductService(rp.products, nil, time.Minute, nil)),
		Support:  support.NewSupportHandler(service.NewSupportService(rp.tickets, nil)),
		Feedback: feedback.NewFeedbackHandler(service.NewFeedbackService(rp.feedback)),
		Question: question.NewQuestionHandler(service.NewQuestionService(rp.questions)),
		Admin: admin.NewAdminHandler(
			service.NewAdminService(rp.users),
			service.NewStatsService(rp.users, rp.orders, rp.products, rp.tickets, rp.feedback),
			analytics,
		),
		Health: health.NewHealthHandler("mongo", func(context.Context) error { return nil }, nil),
	}
	return New(handlers, opts), rp
}

func call(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisteredUserCannotUseAdminRoutes(t *testing.T) {
	r, rp := newTestEngine(Options{})
	rp.users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, interfaces.ErrNotFound)
	rp.users.On("FindByUsername", mock.Anything, "newbie").Return(nil, interfaces.ErrNotFound)
	rp.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	w := call(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "newbie", "email": "new@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data service.AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, model.RoleUser, resp.Data.User.Role)

	status := map[string]string{"orderStatus": "shipped"}
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPatch, "/api/admin/orders/o1/status", resp.Data.Token, status).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPatch, "/api/orders/o1/status", resp.Data.Token, status).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPatch, "/api/admin/orders/o1/status", "", status).Code)
	rp.orders.AssertNotCalled(t, "FindByID", mock.Anything, "o1")
}

func TestAdminCanUpdateOrderStatus(t *testing.T) {
	r, rp := newTestEngine(Options{})
	token, err := util.GenerateToken(&model.User{ID: "a1", Username: "admin", Email: "admin@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	o := &model.Order{ID: "o1", UserID: "u1", OrderStatus: model.OrderStatusPending}
	rp.orders.On("FindByID", mock.Anything, "o1").Return(o, nil)
	rp.orders.On("Update", mock.Anything, o).Return(nil)

	w := call(r, http.MethodPatch, "/api/admin/orders/o1/status", token, map[string]string{"orderStatus": "delivered"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.OrderStatusDelivered, o.OrderStatus)
	assert.NotNil(t, o.DeliveredAt)
}

func TestPublicRoutes(t *testing.T) {
	r, rp := newTestEngine(Options{})
	rp.products.On("List", mock.Anything, mock.Anything).Return([]*model.Product{}, int64(0), nil)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/products", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/feedback", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/nope", "", nil).Code)
}

func TestRequestIDAndCORSHeaders(t *testing.T) {
	r, _ := newTestEngine(Options{FrontendURL: "http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRateLimiterIsMounted(t *testing.T) {
	r, _ := newTestEngine(Options{RateLimiter: middleware.NewRateLimiter(1, 1)})

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/health", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, call(r, http.MethodGet, "/api/health", "", nil).Code)
}

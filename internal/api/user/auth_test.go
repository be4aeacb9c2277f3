package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a testify mock of service.UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id string, input service.UpdateProfileInput) (*model.User, error) {
	args := m.Called(id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id, current, next string) error {
	args := m.Called(id, current, next)
	return args.Error(0)
}

var _ service.UserServiceInterface = (*MockUserService)(nil)

func newRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	withUser := func(c *gin.Context) { c.Set("user_id", "u1") }
	router.GET("/verify", withUser, handler.Verify)
	router.PUT("/password", withUser, handler.ChangePassword)
	return router
}

func postJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	mockService := new(MockUserService)
	router := newRouter(NewAuthHandler(mockService))

	input := service.RegisterInput{Username: "robofan", Email: "fan@example.com", Password: "secret1"}
	mockService.On("Register", input).Return(&service.AuthResult{
		Token: "tok",
		User:  &model.User{ID: "u1", Username: "robofan", Role: model.RoleUser},
	}, nil)

	w := postJSON(router, http.MethodPost, "/register", input)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    service.AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "tok", resp.Data.Token)
	assert.Equal(t, model.RoleUser, resp.Data.User.Role)
	mockService.AssertExpectations(t)
}

func TestRegisterValidation(t *testing.T) {
	mockService := new(MockUserService)
	router := newRouter(NewAuthHandler(mockService))

	w := postJSON(router, http.MethodPost, "/register", map[string]string{"username": "ab", "email": "nope", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrValidation, resp.Code)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
	mockService.AssertNotCalled(t, "Register", mock.Anything)
}

func TestRegisterDuplicate(t *testing.T) {
	mockService := new(MockUserService)
	router := newRouter(NewAuthHandler(mockService))
	mockService.On("Register", mock.Anything).Return(nil, errors.New(errors.ErrUserExists, "email already registered"))

	w := postJSON(router, http.MethodPost, "/register", service.RegisterInput{Username: "robofan", Email: "fan@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	mockService := new(MockUserService)
	router := newRouter(NewAuthHandler(mockService))
	mockService.On("Login", "fan@example.com", "secret1").Return(&service.AuthResult{Token: "tok"}, nil)
	mockService.On("Login", "fan@example.com", "wrong").Return(nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password"))

	w := postJSON(router, http.MethodPost, "/login", map[string]string{"email": "fan@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"tok"`)

	w = postJSON(router, http.MethodPost, "/login", map[string]string{"email": "fan@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerify(t *testing.T) {
	mockService := new(MockUserService)
	router := newRouter(NewAuthHandler(mockService))
	mockService.On("GetUserByID", "u1").Return(&model.User{ID: "u1", IsActive: false}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	mockService.On("GetUserByID", "u1").Return(&model.User{ID: "u1", IsActive: true}, nil).Once()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)
}

func TestChangePassword(t *testing.T) {
	mockService := new(MockUserService)
	router := newRouter(NewAuthHandler(mockService))
	mockService.On("ChangePassword", "u1", "old-secret", "new-secret").Return(nil)

	w := postJSON(router, http.MethodPut, "/password", map[string]string{"currentPassword": "old-secret", "newPassword": "new-secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, http.MethodPut, "/password", map[string]string{"currentPassword": "old-secret", "newPassword": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

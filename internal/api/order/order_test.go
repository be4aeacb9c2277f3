package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/repository/mocks"
	"robotapp-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func as(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextRole, role)
		}
	}
}

func setup(userID, role string) (*gin.Engine, *mocks.OrderRepository) {
	gin.SetMode(gin.TestMode)
	repo := new(mocks.OrderRepository)
	h := NewOrderHandler(service.NewOrderService(repo, nil))

	r := gin.New()
	r.Use(as(userID, role))
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/my-orders", h.GetMyOrders)
	r.GET("/orders/track/:orderNumber", h.TrackOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.GET("/admin/orders", h.ListOrders)
	return r, repo
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkout() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": "p1", "productName": "Emo", "variant": "Emo", "quantity": 1, "price": 299.99},
		},
		"shippingAddress": map[string]string{
			"fullName": "Asha Rao", "email": "asha@example.com", "phone": "9999999999",
			"addressLine1": "1 MG Road", "city": "Bengaluru", "state": "KA", "postalCode": "560001",
		},
		"paymentMethod": "cod",
	}
}

func TestCreateGuestOrder(t *testing.T) {
	r, repo := setup("", "")
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

	w := send(r, http.MethodPost, "/orders", checkout())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.UserID)
	assert.Regexp(t, model.OrderNumberRegex, resp.Data.OrderNumber)
	assert.Equal(t, 299.99, resp.Data.TotalAmount)
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	r, repo := setup("u1", model.RoleUser)
	body := checkout()
	body["paymentMethod"] = "barter"

	w := send(r, http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "paymentMethod")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrderOwnership(t *testing.T) {
	r, repo := setup("u2", model.RoleUser)
	repo.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1", UserID: "u1"}, nil)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, interfaces.ErrNotFound)

	assert.Equal(t, http.StatusForbidden, send(r, http.MethodGet, "/orders/o1", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/orders/missing", nil).Code)

	admin, adminRepo := setup("a1", model.RoleAdmin)
	adminRepo.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1", UserID: "u1"}, nil)
	assert.Equal(t, http.StatusOK, send(admin, http.MethodGet, "/orders/o1", nil).Code)
}

func TestCancelOrder(t *testing.T) {
	r, repo := setup("u1", model.RoleUser)
	pending := &model.Order{ID: "o1", UserID: "u1", OrderStatus: model.OrderStatusPending}
	shipped := &model.Order{ID: "o2", UserID: "u1", OrderStatus: model.OrderStatusShipped}
	repo.On("FindByID", mock.Anything, "o1").Return(pending, nil)
	repo.On("FindByID", mock.Anything, "o2").Return(shipped, nil)
	repo.On("Update", mock.Anything, pending).Return(nil)

	w := send(r, http.MethodPost, "/orders/o1/cancel", map[string]string{"reason": "changed my mind"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.OrderStatusCancelled, pending.OrderStatus)
	assert.Equal(t, "changed my mind", pending.CancellationReason)

	w = send(r, http.MethodPost, "/orders/o2/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackOrderRequiresEmail(t *testing.T) {
	r, repo := setup("", "")
	repo.On("FindByOrderNumber", mock.Anything, "ORD1234567890").
		Return(&model.Order{ID: "o1", OrderNumber: "ORD1234567890", ShippingAddress: model.ShippingAddress{Email: "asha@example.com"}}, nil)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/orders/track/ORD1234567890", nil).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/orders/track/ORD1234567890?email=ASHA@example.com", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/orders/track/ORD1234567890?email=eve@example.com", nil).Code)
}

func TestListOrdersPagination(t *testing.T) {
	r, repo := setup("a1", model.RoleAdmin)
	repo.On("List", mock.Anything, model.OrderFilter{Status: "shipped", SortField: "totalAmount", SortDesc: true, Page: 2, Limit: 5}).
		Return([]*model.Order{{ID: "o6"}}, int64(6), nil)

	w := send(r, http.MethodGet, "/admin/orders?status=shipped&sort=-totalAmount&page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Items      []model.Order `json:"items"`
			Pagination struct {
				Total      int64 `json:"total"`
				TotalPages int64 `json:"totalPages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)
	assert.Equal(t, int64(6), resp.Data.Pagination.Total)
	assert.Equal(t, int64(2), resp.Data.Pagination.TotalPages)
}

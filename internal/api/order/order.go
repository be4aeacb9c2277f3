package order

import (
	"strings"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
)

var sortFields = []string{"createdAt", "totalAmount", "orderNumber", "orderStatus"}

// OrderHandler serves checkout, order history and the admin order views
type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	util.RegisterValidators()
	return &OrderHandler{orderService}
}

// CreateOrder accepts guest and signed-in checkouts
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), middleware.CurrentActor(c), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, order, "Order placed successfully")
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	orders, total, err := h.orderService.ListMyOrders(c.Request.Context(), c.GetString(middleware.ContextUserID), page, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(orders, page, limit, total), "")
}

// TrackOrder lets a guest look up an order by number and shipping email
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "email query parameter is required"))
		return
	}

	order, err := h.orderService.TrackOrder(c.Request.Context(), c.Param("orderNumber"), email)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, order, "")
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, order, "")
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input service.UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, order, "Order status updated")
}

// CancelOrder cancels the caller's own order. The body is optional.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"max=500"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.FromBinding(err))
			return
		}
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.Reason)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, order, "Order cancelled")
}

// ListOrders is the admin listing with status, search and sort
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	field, desc := util.ParseSort(c.Query("sort"), sortFields, "-createdAt")
	filter := model.OrderFilter{
		Status:    c.Query("status"),
		Search:    strings.TrimSpace(c.Query("search")),
		SortField: field,
		SortDesc:  desc,
		Page:      page,
		Limit:     limit,
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(orders, page, limit, total), "")
}

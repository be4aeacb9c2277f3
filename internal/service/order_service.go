package service

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

// CreateOrderInput is the checkout payload. Totals are optional; when
// TotalAmount is zero the server computes every derived amount.
type CreateOrderInput struct {
	Items           []model.OrderItem     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                `json:"paymentMethod" binding:"required,payment_method"`
	Subtotal        float64               `json:"subtotal" binding:"gte=0"`
	ShippingCharge  float64               `json:"shippingCharge" binding:"gte=0"`
	Tax             float64               `json:"tax" binding:"gte=0"`
	Discount        float64               `json:"discount" binding:"gte=0"`
	TotalAmount     float64               `json:"totalAmount" binding:"gte=0"`
	Notes           string                `json:"notes" binding:"max=500"`
}

// UpdateOrderStatusInput is the admin status change. Optional fields are
// applied only when present.
type UpdateOrderStatusInput struct {
	OrderStatus       string     `json:"orderStatus" binding:"required"`
	PaymentStatus     string     `json:"paymentStatus"`
	TrackingNumber    *string    `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// OrderService owns the order lifecycle
type OrderService struct {
	orderRepo interfaces.OrderRepository
	notifier  Notifier
	now       func() time.Time
}

func NewOrderService(orderRepo interfaces.OrderRepository, notifier Notifier) *OrderService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &OrderService{orderRepo: orderRepo, notifier: notifier, now: time.Now}
}

// CreateOrder places an order for actor, who may be anonymous
func (s *OrderService) CreateOrder(ctx context.Context, actor model.Actor, input CreateOrderInput) (*model.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, len(input.Items))
	subtotal := 0.0
	for i, item := range input.Items {
		item.Total = roundMoney(item.Price * float64(item.Quantity))
		subtotal += item.Total
		items[i] = item
	}

	order := &model.Order{
		ID:              util.NewID(),
		UserID:          actor.UserID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		OrderStatus:     model.OrderStatusPending,
		Subtotal:        input.Subtotal,
		ShippingCharge:  input.ShippingCharge,
		Tax:             input.Tax,
		Discount:        input.Discount,
		TotalAmount:     input.TotalAmount,
		Notes:           strings.TrimSpace(input.Notes),
	}
	if order.ShippingAddress.Country == "" {
		order.ShippingAddress.Country = model.DefaultCountry
	}
	if order.TotalAmount == 0 {
		order.Subtotal = roundMoney(subtotal)
		order.TotalAmount = roundMoney(order.Subtotal + order.ShippingCharge + order.Tax - order.Discount)
		if order.TotalAmount < 0 {
			order.TotalAmount = 0
		}
	}

	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.OrderNumber = util.GenerateOrderNumber(now)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.Wrap(errors.ErrResourceConflict, "order number collision, please retry", err)
		}
		return nil, repoError(err, errors.ErrOrderNotFound, "order not found")
	}

	util.Logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", order.UserID),
		zap.Float64("total", order.TotalAmount))

	s.notifier.SendOrderConfirmation(order)
	return order, nil
}

func validateOrderInput(input CreateOrderInput) error {
	details := map[string]string{}
	if len(input.Items) == 0 {
		details["items"] = "at least one item is required"
	}
	for _, item := range input.Items {
		if item.Quantity < model.MinItemQuantity || item.Quantity > model.MaxItemQuantity {
			details["items.quantity"] = "quantity must be between 1 and 10"
		}
		if item.Price < 0 {
			details["items.price"] = "price must not be negative"
		}
		if item.Variant != "" && !model.ValidVariant(item.Variant) {
			details["items.variant"] = "variant must be one of Emo, EmoPro, ProPlus"
		}
	}
	addr := input.ShippingAddress
	required := map[string]string{
		"shippingAddress.fullName":     addr.FullName,
		"shippingAddress.email":        addr.Email,
		"shippingAddress.phone":        addr.Phone,
		"shippingAddress.addressLine1": addr.AddressLine1,
		"shippingAddress.city":         addr.City,
		"shippingAddress.state":        addr.State,
		"shippingAddress.postalCode":   addr.PostalCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			details[field] = "is required"
		}
	}
	if !model.ValidPaymentMethod(input.PaymentMethod) {
		details["paymentMethod"] = "unsupported payment method"
	}
	if len(details) > 0 {
		return errors.New(errors.ErrValidation, "invalid order").WithDetails(details)
	}
	return nil
}

// UpdateStatus is the admin status setter. Any listed status is accepted,
// including moving backwards.
func (s *OrderService) UpdateStatus(ctx context.Context, actor model.Actor, orderID string, input UpdateOrderStatusInput) (*model.Order, error) {
	if !actor.IsAdmin() {
		return nil, errors.New(errors.ErrForbidden, "admin access required")
	}
	if !model.ValidOrderStatus(input.OrderStatus) {
		return nil, errors.New(errors.ErrValidation, "invalid order status")
	}
	if input.PaymentStatus != "" && !model.ValidPaymentStatus(input.PaymentStatus) {
		return nil, errors.New(errors.ErrValidation, "invalid payment status")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previous := order.OrderStatus
	order.OrderStatus = input.OrderStatus
	switch input.OrderStatus {
	case model.OrderStatusDelivered:
		order.DeliveredAt = &now
	case model.OrderStatusCancelled:
		if previous != model.OrderStatusCancelled {
			order.CancelledAt = &now
		}
	}
	if input.PaymentStatus != "" {
		order.PaymentStatus = input.PaymentStatus
	}
	if input.TrackingNumber != nil {
		order.TrackingNumber = strings.TrimSpace(*input.TrackingNumber)
	}
	if input.EstimatedDelivery != nil {
		order.EstimatedDelivery = input.EstimatedDelivery
	}
	order.UpdatedAt = now

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, repoError(err, errors.ErrOrderNotFound, "order not found")
	}
	util.Logger.Info("order status updated",
		zap.String("order_id", order.ID),
		zap.String("from", previous),
		zap.String("to", order.OrderStatus),
		zap.String("admin_id", actor.UserID))
	return order, nil
}

// CancelOrder lets the owner cancel a pending or confirmed order
func (s *OrderService) CancelOrder(ctx context.Context, actor model.Actor, orderID, reason string) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.IsAnonymous() || order.UserID != actor.UserID {
		return nil, errors.New(errors.ErrForbidden, "you can only cancel your own orders")
	}
	if !order.IsCancellable() {
		return nil, errors.New(errors.ErrOrderNotCancellable, "order cannot be cancelled once it is "+order.OrderStatus)
	}

	now := s.now()
	order.OrderStatus = model.OrderStatusCancelled
	order.CancelledAt = &now
	order.CancellationReason = strings.TrimSpace(reason)
	order.UpdatedAt = now

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, repoError(err, errors.ErrOrderNotFound, "order not found")
	}
	util.Logger.Info("order cancelled", zap.String("order_id", order.ID), zap.String("user_id", actor.UserID))
	return order, nil
}

// GetOrder returns the order to its owner or an admin
func (s *OrderService) GetOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (actor.IsAnonymous() || order.UserID != actor.UserID) {
		return nil, errors.New(errors.ErrForbidden, "you do not have access to this order")
	}
	return order, nil
}

// TrackOrder finds an order by number for guests. The email must match the
// shipping address, and a mismatch looks the same as a missing order.
func (s *OrderService) TrackOrder(ctx context.Context, orderNumber, email string) (*model.Order, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New(errors.ErrValidation, "email is required")
	}
	order, err := s.orderRepo.FindByOrderNumber(ctx, strings.ToUpper(strings.TrimSpace(orderNumber)))
	if err != nil {
		return nil, repoError(err, errors.ErrOrderNotFound, "order not found")
	}
	if !strings.EqualFold(order.ShippingAddress.Email, strings.TrimSpace(email)) {
		return nil, errors.New(errors.ErrOrderNotFound, "order not found")
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID string, page, limit int) ([]*model.Order, int64, error) {
	page, limit = normalizePage(page, limit)
	orders, total, err := s.orderRepo.FindByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrOrderNotFound, "order not found")
	}
	return orders, total, nil
}

func (s *OrderService) ListOrders(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int64, error) {
	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, 0, errors.New(errors.ErrValidation, "invalid order status")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrOrderNotFound, "order not found")
	}
	return orders, total, nil
}

func (s *OrderService) findOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrOrderNotFound, "order not found")
	}
	return order, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

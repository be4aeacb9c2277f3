package model

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusPaid       = "paid"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

var (
	OrderStatuses   = []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	PaymentStatuses = []string{PaymentStatusPending, PaymentStatusProcessing, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded}
	PaymentMethods  = []string{"credit_card", "debit_card", "upi", "net_banking", "cod", "wallet"}
)

const (
	DefaultCountry   = "India"
	MinItemQuantity  = 1
	MaxItemQuantity  = 10
	OrderNumberRegex = `^ORD\d{10}$`
)

// OrderItem is one line of an order
type OrderItem struct {
	ProductID   string  `json:"productId" bson:"productId" binding:"required"`
	ProductName string  `json:"productName" bson:"productName" binding:"required"`
	Variant     string  `json:"variant" bson:"variant" binding:"omitempty,variant"`
	Quantity    int     `json:"quantity" bson:"quantity" binding:"required,min=1,max=10"`
	Price       float64 `json:"price" bson:"price" binding:"gte=0"`
	Total       float64 `json:"total" bson:"total"`
}

// ShippingAddress is embedded in every order
type ShippingAddress struct {
	FullName     string `json:"fullName" bson:"fullName" binding:"required"`
	Email        string `json:"email" bson:"email" binding:"required,email"`
	Phone        string `json:"phone" bson:"phone" binding:"required"`
	AddressLine1 string `json:"addressLine1" bson:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2,omitempty" bson:"addressLine2,omitempty"`
	City         string `json:"city" bson:"city" binding:"required"`
	State        string `json:"state" bson:"state" binding:"required"`
	PostalCode   string `json:"postalCode" bson:"postalCode" binding:"required"`
	Country      string `json:"country" bson:"country"`
}

// Order represents a customer order
type Order struct {
	ID                 string          `json:"id" bson:"_id"`
	OrderNumber        string          `json:"orderNumber" bson:"orderNumber"`
	UserID             string          `json:"userId,omitempty" bson:"userId,omitempty"` // empty for guest orders
	Items              []OrderItem     `json:"items" bson:"items"`
	ShippingAddress    ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod      string          `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus      string          `json:"paymentStatus" bson:"paymentStatus"`
	OrderStatus        string          `json:"orderStatus" bson:"orderStatus"`
	Subtotal           float64         `json:"subtotal" bson:"subtotal"`
	ShippingCharge     float64         `json:"shippingCharge" bson:"shippingCharge"`
	Tax                float64         `json:"tax" bson:"tax"`
	Discount           float64         `json:"discount" bson:"discount"`
	TotalAmount        float64         `json:"totalAmount" bson:"totalAmount"`
	Notes              string          `json:"notes,omitempty" bson:"notes,omitempty"`
	TrackingNumber     string          `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	EstimatedDelivery  *time.Time      `json:"estimatedDelivery,omitempty" bson:"estimatedDelivery,omitempty"`
	DeliveredAt        *time.Time      `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// IsCancellable reports whether the owner may still cancel the order
func (o *Order) IsCancellable() bool {
	return o.OrderStatus == OrderStatusPending || o.OrderStatus == OrderStatusConfirmed
}

// OrderFilter drives the admin order listing
type OrderFilter struct {
	Status    string
	Search    string
	SortField string
	SortDesc  bool
	Page      int
	Limit     int
}

func ValidOrderStatus(status string) bool {
	return contains(OrderStatuses, status)
}

func ValidPaymentStatus(status string) bool {
	return contains(PaymentStatuses, status)
}

func ValidPaymentMethod(method string) bool {
	return contains(PaymentMethods, method)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

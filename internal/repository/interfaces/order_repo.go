package interfaces

import (
	"context"

	"robotapp-backend/internal/model"
)

// OrderRepository persists orders
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	FindByUser(ctx context.Context, userID string, page, limit int) ([]*model.Order, int64, error)
	List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

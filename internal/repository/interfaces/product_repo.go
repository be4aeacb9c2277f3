package interfaces

import (
	"context"

	"robotapp-backend/internal/model"
)

// ProductRepository persists the catalog. Slug is unique.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, int64, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

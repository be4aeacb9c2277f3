package mysql

import (
	"context"
	"database/sql"
	"strings"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"stock":     "stock",
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) interfaces.ProductRepository {
	return &productRepository{db}
}

func productColumns(product *model.Product) *columns {
	return (&columns{}).
		set("slug", product.Slug).
		set("name", product.Name).
		set("variant", product.Variant).
		set("description", product.Description).
		set("tags", strings.Join(product.Tags, " ")).
		set("price", product.Price).
		set("stock", product.Stock).
		set("is_active", product.IsActive)
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	cols := productColumns(product).set("id", product.ID).set("created_at", product.CreatedAt)
	return insertRow(ctx, r.db, "products", cols, product)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := getDoc(ctx, r.db, "products", "id", id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := getDoc(ctx, r.db, "products", "slug", slug, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return updateRow(ctx, r.db, "products", product.ID, productColumns(product), product)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "products", id)
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, int64, error) {
	w := &where{}
	if !filter.IncludeInactive {
		w.add("is_active = TRUE")
	}
	if filter.Variant != "" {
		w.add("variant = ?", filter.Variant)
	}
	w.search(filter.Search, "name", "description", "tags")
	if filter.MinPrice != nil {
		w.add("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		w.add("price <= ?", *filter.MaxPrice)
	}
	return listDocs[model.Product](ctx, r.db, "products", w,
		orderBy(productSortColumns, filter.SortField, filter.SortDesc), filter.Page, filter.Limit)
}

func (r *productRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	w := &where{}
	if activeOnly {
		w.add("is_active = TRUE")
	}
	return count(ctx, r.db, "products", w)
}

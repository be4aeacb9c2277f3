package mongodb

import (
	"context"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductRepository stores the catalog
type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	_, err := r.coll.InsertOne(ctx, product)
	return translateError(err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := findOne(ctx, r.coll, bson.M{"slug": slug}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	return replaceByID(ctx, r.coll, product.ID, product)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, int64, error) {
	q := bson.M{}
	if !filter.IncludeInactive {
		q["isActive"] = true
	}
	if filter.Variant != "" {
		q["variant"] = filter.Variant
	}
	if filter.Search != "" {
		q["$or"] = bson.A{
			bson.M{"name": containsText(filter.Search)},
			bson.M{"description": containsText(filter.Search)},
			bson.M{"tags": containsText(filter.Search)},
		}
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}

	products := []*model.Product{}
	total, err := findPage(ctx, r.coll, q, sortBy(filter.SortField, filter.SortDesc, "createdAt"), filter.Page, filter.Limit, &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := bson.M{}
	if activeOnly {
		q["isActive"] = true
	}
	return r.coll.CountDocuments(ctx, q)
}

package mongodb

import (
	"context"

	"robotapp-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository stores orders with their items and address embedded
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	_, err := r.coll.InsertOne(ctx, order)
	return translateError(err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	if err := findOne(ctx, r.coll, bson.M{"orderNumber": orderNumber}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID string, page, limit int) ([]*model.Order, int64, error) {
	orders := []*model.Order{}
	total, err := findPage(ctx, r.coll, bson.M{"userId": userID}, sortBy("createdAt", true, "createdAt"), page, limit, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int64, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["orderStatus"] = filter.Status
	}
	if filter.Search != "" {
		q["$or"] = bson.A{
			bson.M{"orderNumber": containsText(filter.Search)},
			bson.M{"shippingAddress.fullName": containsText(filter.Search)},
			bson.M{"shippingAddress.email": containsText(filter.Search)},
		}
	}

	orders := []*model.Order{}
	total, err := findPage(ctx, r.coll, q, sortBy(filter.SortField, filter.SortDesc, "createdAt"), filter.Page, filter.Limit, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *model.Order) error {
	return replaceByID(ctx, r.coll, order.ID, order)
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$orderStatus"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TotalRevenue sums totalAmount over every order that was not cancelled
func (r *OrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"orderStatus": bson.M{"$ne": model.OrderStatusCancelled}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

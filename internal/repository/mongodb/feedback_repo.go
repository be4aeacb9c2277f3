package mongodb

import (
	"context"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedbackRepository stores feedback items with votes and replies embedded
type FeedbackRepository struct {
	coll *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(feedbackCollection)}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	_, err := r.coll.InsertOne(ctx, feedback)
	return translateError(err)
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepository) Update(ctx context.Context, feedback *model.Feedback) error {
	return replaceByID(ctx, r.coll, feedback.ID, feedback)
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context, filter model.FeedbackFilter) ([]*model.Feedback, int64, error) {
	q := feedbackQuery(filter)
	if filter.SortField != "votes" {
		items := []*model.Feedback{}
		total, err := findPage(ctx, r.coll, q, sortBy(filter.SortField, filter.SortDesc, "createdAt"), filter.Page, filter.Limit, &items)
		if err != nil {
			return nil, 0, err
		}
		return items, total, nil
	}

	total, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	// score = |upvotes| - |downvotes|
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: q}},
		{{Key: "$addFields", Value: bson.M{"score": bson.M{"$subtract": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$upvotes", bson.A{}}}},
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$downvotes", bson.A{}}}},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "score", Value: direction(filter.SortDesc)}, {Key: "createdAt", Value: -1}}}},
	}
	if filter.Limit > 0 {
		if filter.Page > 1 {
			pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64((filter.Page - 1) * filter.Limit)}})
		}
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(filter.Limit)}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{"score": 0}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []*model.Feedback{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *FeedbackRepository) Count(ctx context.Context, filter model.FeedbackFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, feedbackQuery(filter))
}

func feedbackQuery(filter model.FeedbackFilter) bson.M {
	q := bson.M{}
	if filter.UserID != "" {
		q["userId"] = filter.UserID
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.Search != "" {
		q["$or"] = bson.A{
			bson.M{"title": containsText(filter.Search)},
			bson.M{"message": containsText(filter.Search)},
		}
	}
	return q
}

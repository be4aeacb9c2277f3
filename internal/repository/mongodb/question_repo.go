package mongodb

import (
	"context"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionRepository stores community questions with answers embedded
type QuestionRepository struct {
	coll *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{coll: db.Collection(questionsCollection)}
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	_, err := r.coll.InsertOne(ctx, question)
	return translateError(err)
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Update(ctx context.Context, question *model.Question) error {
	return replaceByID(ctx, r.coll, question.ID, question)
}

func (r *QuestionRepository) List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, int64, error) {
	q := bson.M{}
	if filter.Search != "" {
		q["$or"] = bson.A{
			bson.M{"title": containsText(filter.Search)},
			bson.M{"body": containsText(filter.Search)},
		}
	}
	if filter.Tag != "" {
		q["tags"] = filter.Tag
	}
	if filter.Resolved != nil {
		q["isResolved"] = *filter.Resolved
	}

	questions := []*model.Question{}
	total, err := findPage(ctx, r.coll, q, sortBy("createdAt", true, "createdAt"), filter.Page, filter.Limit, &questions)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *QuestionRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

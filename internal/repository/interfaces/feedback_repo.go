package interfaces

import (
	"context"

	"robotapp-backend/internal/model"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	Update(ctx context.Context, feedback *model.Feedback) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.FeedbackFilter) ([]*model.Feedback, int64, error)
	Count(ctx context.Context, filter model.FeedbackFilter) (int64, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, int64, error)
	IncrementViews(ctx context.Context, id string) error
}

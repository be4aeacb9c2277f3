package mysql

import (
	"context"
	"database/sql"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

var feedbackSortColumns = map[string]string{
	"createdAt": "created_at",
	"votes":     "score",
	"title":     "title",
}

type feedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) interfaces.FeedbackRepository {
	return &feedbackRepository{db}
}

func feedbackColumns(feedback *model.Feedback) *columns {
	return (&columns{}).
		set("category", feedback.Category).
		set("status", feedback.Status).
		set("title", feedback.Title).
		set("message", feedback.Message).
		set("score", feedback.Score())
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	cols := feedbackColumns(feedback).
		set("id", feedback.ID).
		set("user_id", feedback.UserID).
		set("created_at", feedback.CreatedAt)
	return insertRow(ctx, r.db, "feedback", cols, feedback)
}

func (r *feedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := getDoc(ctx, r.db, "feedback", "id", id, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *model.Feedback) error {
	return updateRow(ctx, r.db, "feedback", feedback.ID, feedbackColumns(feedback), feedback)
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "feedback", id)
}

func (r *feedbackRepository) List(ctx context.Context, filter model.FeedbackFilter) ([]*model.Feedback, int64, error) {
	return listDocs[model.Feedback](ctx, r.db, "feedback", feedbackWhere(filter),
		orderBy(feedbackSortColumns, filter.SortField, filter.SortDesc), filter.Page, filter.Limit)
}

func (r *feedbackRepository) Count(ctx context.Context, filter model.FeedbackFilter) (int64, error) {
	return count(ctx, r.db, "feedback", feedbackWhere(filter))
}

func feedbackWhere(filter model.FeedbackFilter) *where {
	w := &where{}
	if filter.UserID != "" {
		w.add("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	w.search(filter.Search, "title", "message")
	return w
}

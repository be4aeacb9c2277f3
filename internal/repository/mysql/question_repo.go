package mysql

import (
	"context"
	"database/sql"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) interfaces.QuestionRepository {
	return &questionRepository{db}
}

func questionColumns(question *model.Question) *columns {
	return (&columns{}).
		set("title", question.Title).
		set("body", question.Body).
		set("tags", joinTags(question.Tags)).
		set("is_resolved", question.IsResolved).
		set("views", question.Views)
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	cols := questionColumns(question).set("id", question.ID).set("created_at", question.CreatedAt)
	return insertRow(ctx, r.db, "questions", cols, question)
}

func (r *questionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := getDoc(ctx, r.db, "questions", "id", id, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return updateRow(ctx, r.db, "questions", question.ID, questionColumns(question), question)
}

func (r *questionRepository) List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, int64, error) {
	w := &where{}
	w.search(filter.Search, "title", "body")
	if filter.Tag != "" {
		w.add("tags LIKE ?", "%,"+escapeLike(filter.Tag)+",%")
	}
	if filter.Resolved != nil {
		w.add("is_resolved = ?", *filter.Resolved)
	}
	return listDocs[model.Question](ctx, r.db, "questions", w, "created_at DESC", filter.Page, filter.Limit)
}

// IncrementViews bumps the column and the copy inside the document together
func (r *questionRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE questions SET views = views + 1, data = JSON_SET(data, '$.views', views) WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

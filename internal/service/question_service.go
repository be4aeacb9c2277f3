package service

import (
	"context"
	"strings"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

type AskQuestionInput struct {
	Title string   `json:"title" binding:"required,min=10,max=200"`
	Body  string   `json:"body" binding:"required,min=20,max=5000"`
	Tags  []string `json:"tags" binding:"max=5"`
}

// QuestionService runs the community Q&A board
type QuestionService struct {
	questionRepo interfaces.QuestionRepository
	now          func() time.Time
}

func NewQuestionService(questionRepo interfaces.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, now: time.Now}
}

func (s *QuestionService) AskQuestion(ctx context.Context, actor model.Actor, input AskQuestionInput) (*model.Question, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if !lengthBetween(title, 10, 200) {
		return nil, errors.New(errors.ErrValidation, "title must be between 10 and 200 characters")
	}
	if !lengthBetween(body, 20, 5000) {
		return nil, errors.New(errors.ErrValidation, "body must be between 20 and 5000 characters")
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}

	now := s.now()
	question := &model.Question{
		ID:        util.NewID(),
		UserID:    actor.UserID,
		UserName:  actor.Username,
		Title:     title,
		Body:      body,
		Tags:      tags,
		Answers:   []model.Answer{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, repoError(err, errors.ErrQuestionNotFound, "question not found")
	}
	util.Logger.Info("question asked", zap.String("question_id", question.ID), zap.String("user_id", actor.UserID))
	return question, nil
}

// GetQuestion counts a view and returns the question
func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	if err := s.questionRepo.IncrementViews(ctx, id); err != nil {
		return nil, repoError(err, errors.ErrQuestionNotFound, "question not found")
	}
	return s.find(ctx, id)
}

func (s *QuestionService) ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, int64, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	questions, total, err := s.questionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrQuestionNotFound, "question not found")
	}
	return questions, total, nil
}

func (s *QuestionService) AddAnswer(ctx context.Context, actor model.Actor, id, body string) (*model.Question, error) {
	body = strings.TrimSpace(body)
	if !lengthBetween(body, 10, 5000) {
		return nil, errors.New(errors.ErrValidation, "answer must be between 10 and 5000 characters")
	}
	question, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	question.Answers = append(question.Answers, model.Answer{
		ID:        util.NewID(),
		UserID:    actor.UserID,
		UserName:  actor.Username,
		Body:      body,
		Upvotes:   []string{},
		CreatedAt: s.now(),
	})
	return s.save(ctx, question)
}

// UpvoteAnswer toggles the caller's upvote
func (s *QuestionService) UpvoteAnswer(ctx context.Context, actor model.Actor, id, answerID string) (*model.Question, error) {
	question, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	answer := findAnswer(question, answerID)
	if answer == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "answer not found")
	}
	answer.Upvotes, _ = toggle(answer.Upvotes, actor.UserID)
	return s.save(ctx, question)
}

// AcceptAnswer marks one answer accepted and the question resolved. Only the asker may accept.
func (s *QuestionService) AcceptAnswer(ctx context.Context, actor model.Actor, id, answerID string) (*model.Question, error) {
	question, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if question.UserID != actor.UserID {
		return nil, errors.New(errors.ErrForbidden, "only the author can accept an answer")
	}
	if findAnswer(question, answerID) == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "answer not found")
	}
	for i := range question.Answers {
		question.Answers[i].IsAccepted = question.Answers[i].ID == answerID
	}
	question.IsResolved = true
	return s.save(ctx, question)
}

func (s *QuestionService) find(ctx context.Context, id string) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrQuestionNotFound, "question not found")
	}
	return question, nil
}

func (s *QuestionService) save(ctx context.Context, question *model.Question) (*model.Question, error) {
	question.UpdatedAt = s.now()
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, repoError(err, errors.ErrQuestionNotFound, "question not found")
	}
	return question, nil
}

func findAnswer(question *model.Question, answerID string) *model.Answer {
	for i := range question.Answers {
		if question.Answers[i].ID == answerID {
			return &question.Answers[i]
		}
	}
	return nil
}

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

type CreateFeedbackInput struct {
	Title       string   `json:"title" binding:"required,min=5,max=100"`
	Message     string   `json:"message" binding:"required,min=10,max=1000"`
	Category    string   `json:"category" binding:"required"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	IsAnonymous bool     `json:"isAnonymous"`
}

// FeedbackService handles feedback items, votes and replies
type FeedbackService struct {
	feedbackRepo interfaces.FeedbackRepository
	now          func() time.Time
}

func NewFeedbackService(feedbackRepo interfaces.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo, now: time.Now}
}

func (s *FeedbackService) CreateFeedback(ctx context.Context, actor model.Actor, input CreateFeedbackInput) (*model.Feedback, error) {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if !lengthBetween(title, 5, 100) {
		return nil, errors.New(errors.ErrValidation, "title must be between 5 and 100 characters")
	}
	if !lengthBetween(message, 10, 1000) {
		return nil, errors.New(errors.ErrValidation, "message must be between 10 and 1000 characters")
	}
	if !model.ValidFeedbackCategory(input.Category) {
		return nil, errors.New(errors.ErrValidation, "invalid feedback category")
	}
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	if !model.ValidPriority(priority) {
		return nil, errors.New(errors.ErrValidation, "invalid priority")
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	feedback := &model.Feedback{
		ID:          util.NewID(),
		UserID:      actor.UserID,
		UserName:    actor.Username,
		UserEmail:   actor.Email,
		Title:       title,
		Message:     message,
		Category:    input.Category,
		Priority:    priority,
		Status:      model.StatusOpen,
		Upvotes:     []string{},
		Downvotes:   []string{},
		Replies:     []model.FeedbackReply{},
		Tags:        tags,
		IsAnonymous: input.IsAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, repoError(err, errors.ErrFeedbackNotFound, "feedback not found")
	}
	util.Logger.Info("feedback created", zap.String("feedback_id", feedback.ID), zap.String("user_id", actor.UserID))
	return present(actor, feedback), nil
}

func (s *FeedbackService) GetFeedback(ctx context.Context, actor model.Actor, id string) (*model.Feedback, error) {
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return present(actor, feedback), nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context, actor model.Actor, filter model.FeedbackFilter) ([]*model.Feedback, int64, error) {
	if filter.Category != "" && !model.ValidFeedbackCategory(filter.Category) {
		return nil, 0, errors.New(errors.ErrValidation, "invalid feedback category")
	}
	if filter.Status != "" && !model.ValidTrackerStatus(filter.Status) {
		return nil, 0, errors.New(errors.ErrValidation, "invalid status")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.feedbackRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrFeedbackNotFound, "feedback not found")
	}
	for i, item := range items {
		items[i] = present(actor, item)
	}
	return items, total, nil
}

func (s *FeedbackService) UpdateStatus(ctx context.Context, actor model.Actor, id, status string) (*model.Feedback, error) {
	if !model.ValidTrackerStatus(status) {
		return nil, errors.New(errors.ErrValidation, "invalid status")
	}
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback.Status = status
	return s.save(ctx, actor, feedback)
}

// Vote records an up or down vote. Voting twice the same way is a no-op and
// switching sides moves the vote.
func (s *FeedbackService) Vote(ctx context.Context, actor model.Actor, id, voteType string) (*model.Feedback, error) {
	if voteType != model.VoteUp && voteType != model.VoteDown {
		return nil, errors.New(errors.ErrValidation, "vote type must be upvote or downvote")
	}
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	feedback.Upvotes = without(feedback.Upvotes, actor.UserID)
	feedback.Downvotes = without(feedback.Downvotes, actor.UserID)
	if voteType == model.VoteUp {
		feedback.Upvotes = append(feedback.Upvotes, actor.UserID)
	} else {
		feedback.Downvotes = append(feedback.Downvotes, actor.UserID)
	}
	return s.save(ctx, actor, feedback)
}

func (s *FeedbackService) RemoveVote(ctx context.Context, actor model.Actor, id string) (*model.Feedback, error) {
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback.Upvotes = without(feedback.Upvotes, actor.UserID)
	feedback.Downvotes = without(feedback.Downvotes, actor.UserID)
	return s.save(ctx, actor, feedback)
}

func (s *FeedbackService) AddReply(ctx context.Context, actor model.Actor, id, message string) (*model.Feedback, error) {
	message = strings.TrimSpace(message)
	if !lengthBetween(message, 1, 1000) {
		return nil, errors.New(errors.ErrValidation, "reply must be between 1 and 1000 characters")
	}
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback.Replies = append(feedback.Replies, model.FeedbackReply{
		ID:        util.NewID(),
		UserID:    actor.UserID,
		UserName:  actor.Username,
		Message:   message,
		Likes:     []string{},
		CreatedAt: s.now(),
	})
	return s.save(ctx, actor, feedback)
}

// LikeReply toggles the caller's like on a reply
func (s *FeedbackService) LikeReply(ctx context.Context, actor model.Actor, id, replyID string) (*model.Feedback, error) {
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	reply := findReply(feedback, replyID)
	if reply == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "reply not found")
	}
	reply.Likes, _ = toggle(reply.Likes, actor.UserID)
	return s.save(ctx, actor, feedback)
}

// MarkSolution flags one reply as the solution. Only the feedback author or an admin may do it.
func (s *FeedbackService) MarkSolution(ctx context.Context, actor model.Actor, id, replyID string) (*model.Feedback, error) {
	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && feedback.UserID != actor.UserID {
		return nil, errors.New(errors.ErrForbidden, "only the author or an admin can mark a solution")
	}
	if findReply(feedback, replyID) == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "reply not found")
	}
	for i := range feedback.Replies {
		feedback.Replies[i].IsSolution = feedback.Replies[i].ID == replyID
	}
	return s.save(ctx, actor, feedback)
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, actor model.Actor, id string) error {
	feedback, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && feedback.UserID != actor.UserID {
		return errors.New(errors.ErrForbidden, "only the author or an admin can delete feedback")
	}
	if err := s.feedbackRepo.Delete(ctx, id); err != nil {
		return repoError(err, errors.ErrFeedbackNotFound, "feedback not found")
	}
	util.Logger.Info("feedback deleted", zap.String("feedback_id", id), zap.String("user_id", actor.UserID))
	return nil
}

func (s *FeedbackService) find(ctx context.Context, id string) (*model.Feedback, error) {
	feedback, err := s.feedbackRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrFeedbackNotFound, "feedback not found")
	}
	return feedback, nil
}

func (s *FeedbackService) save(ctx context.Context, actor model.Actor, feedback *model.Feedback) (*model.Feedback, error) {
	feedback.UpdatedAt = s.now()
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, repoError(err, errors.ErrFeedbackNotFound, "feedback not found")
	}
	return present(actor, feedback), nil
}

func findReply(feedback *model.Feedback, replyID string) *model.FeedbackReply {
	for i := range feedback.Replies {
		if feedback.Replies[i].ID == replyID {
			return &feedback.Replies[i]
		}
	}
	return nil
}

// present hides the author of anonymous feedback from everyone but admins
func present(actor model.Actor, feedback *model.Feedback) *model.Feedback {
	if actor.IsAdmin() {
		return feedback
	}
	return feedback.Redacted()
}

package feedback

import (
	"strings"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
)

var sortFields = []string{"createdAt", "votes"}

// FeedbackHandler serves feedback items, votes and replies
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	util.RegisterValidators()
	return &FeedbackHandler{feedbackService}
}

func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	field, desc := util.ParseSort(c.Query("sort"), sortFields, "-createdAt")
	filter := model.FeedbackFilter{
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		Search:    strings.TrimSpace(c.Query("search")),
		SortField: field,
		SortDesc:  desc,
		Page:      page,
		Limit:     limit,
	}

	items, total, err := h.feedbackService.ListFeedback(c.Request.Context(), middleware.CurrentActor(c), filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(items, page, limit, total), "")
}

func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var input service.CreateFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	item, err := h.feedbackService.CreateFeedback(c.Request.Context(), middleware.CurrentActor(c), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, item, "Feedback submitted")
}

func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	item, err := h.feedbackService.GetFeedback(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "")
}

func (h *FeedbackHandler) Vote(c *gin.Context) {
	var input struct {
		VoteType string `json:"voteType" binding:"required,oneof=upvote downvote"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	item, err := h.feedbackService.Vote(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.VoteType)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "Vote recorded")
}

func (h *FeedbackHandler) RemoveVote(c *gin.Context) {
	item, err := h.feedbackService.RemoveVote(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "Vote removed")
}

func (h *FeedbackHandler) AddReply(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	item, err := h.feedbackService.AddReply(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.Message)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, item, "Reply added")
}

func (h *FeedbackHandler) LikeReply(c *gin.Context) {
	item, err := h.feedbackService.LikeReply(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), c.Param("replyId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "")
}

func (h *FeedbackHandler) MarkSolution(c *gin.Context) {
	item, err := h.feedbackService.MarkSolution(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), c.Param("replyId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "Reply marked as solution")
}

func (h *FeedbackHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	item, err := h.feedbackService.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.Status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "Status updated")
}

func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Feedback deleted")
}
